package junction

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity/junction/trafficlight"
)

// Junction 路口实体
// 功能：按注册顺序维护驶入与驶出道路，通过信号灯每tick放行绿灯道路上的一辆等待车辆
// 说明：道路只以ID保存，通过RoadManager解析
type Junction struct {
	ctx entity.ITaskContext

	id       string
	kind     entity.JunctionKind
	incoming []string // 驶入道路ID，按注册顺序
	outgoing []string // 驶出道路ID，按注册顺序

	light        int           // 绿灯道路在incoming中的下标，-1表示未初始化
	trafficLight ITrafficLight // 信号灯模块
}

// newJunction 创建并初始化一个新的Junction实例
// 功能：根据创建参数构造Junction，选择对应路口类型的信号灯控制器
// 参数：ctx-任务上下文，attr-路口创建参数
// 返回：初始化完成的Junction实例
func newJunction(ctx entity.ITaskContext, attr entity.JunctionAttr) *Junction {
	j := &Junction{
		ctx:      ctx,
		id:       attr.ID,
		kind:     attr.Kind,
		incoming: make([]string, 0),
		outgoing: make([]string, 0),
		light:    -1,
	}
	switch attr.Kind {
	case entity.JunctionRoundRobin:
		j.trafficLight = trafficlight.NewAdaptiveTrafficLight(j.id, attr.MinTimeSlice, attr.MaxTimeSlice)
	case entity.JunctionMostCrowded:
		j.trafficLight = trafficlight.NewMostCrowdedTrafficLight(j.id)
	default:
		j.trafficLight = trafficlight.NewFixedTrafficLight(j.id)
	}
	return j
}

func (j *Junction) String() string {
	return fmt.Sprintf("Junction{ID:%s, Incoming:%v, Outgoing:%v}", j.id, j.incoming, j.outgoing)
}

// ID 获取Junction的唯一标识符
func (j *Junction) ID() string {
	return j.id
}

func (j *Junction) Kind() entity.JunctionKind {
	return j.kind
}

// IncomingRoads 按注册顺序获取驶入道路
func (j *Junction) IncomingRoads() []entity.IRoad {
	return j.resolve(j.incoming)
}

// OutgoingRoads 按注册顺序获取驶出道路
func (j *Junction) OutgoingRoads() []entity.IRoad {
	return j.resolve(j.outgoing)
}

func (j *Junction) resolve(ids []string) []entity.IRoad {
	return lo.Map(ids, func(id string, _ int) entity.IRoad {
		return j.ctx.RoadManager().Get(id)
	})
}

// GreenIndex 当前绿灯道路下标，-1表示未初始化
func (j *Junction) GreenIndex() int {
	return j.light
}

// AddIncomingRoad 注册驶入道路
// 说明：追加到末尾，不影响已有道路的下标
func (j *Junction) AddIncomingRoad(road entity.IRoad) {
	if lo.Contains(j.incoming, road.ID()) {
		return
	}
	j.incoming = append(j.incoming, road.ID())
	j.trafficLight.AddRoad(road.ID())
}

// AddOutgoingRoad 注册驶出道路
func (j *Junction) AddOutgoingRoad(road entity.IRoad) {
	if lo.Contains(j.outgoing, road.ID()) {
		return
	}
	j.outgoing = append(j.outgoing, road.ID())
}

// RoadTo 查找从本路口到目标路口的道路
// 功能：按注册顺序查找第一条终点为目标路口的驶出道路
// 返回：道路实例，不存在时返回ErrNotExist
func (j *Junction) RoadTo(junctionID string) (entity.IRoad, error) {
	for _, road := range j.OutgoingRoads() {
		if road.To() == junctionID {
			return road, nil
		}
	}
	return nil, fmt.Errorf("road not found between junctions %s and %s: %w", j.id, junctionID, entity.ErrNotExist)
}

// Proceed 推进一个tick
// 功能：没有驶入道路时不做任何事；信号灯未初始化时选择首个绿灯道路；否则放行车辆并更新信号灯
// 算法说明：
// 1. 绿灯道路有等待车辆时尝试让队首车辆通过，红灯或无法进入下一条道路的错误只记录日志
// 2. 绿灯道路等待队列中故障车辆的故障时间减一
// 3. 信号灯推进计时，切换时先将原绿灯道路置红，再将新绿灯道路置绿
func (j *Junction) Proceed() {
	if len(j.incoming) == 0 {
		return
	}
	roads := j.IncomingRoads()
	if j.light == -1 {
		j.light = j.trafficLight.First(roads)
		roads[j.light].SetLight(true)
		return
	}
	green := roads[j.light]
	crossed := false
	if green.NumWaiting() > 0 {
		ok, err := green.MoveWaitingVehicle()
		switch {
		case errors.Is(err, entity.ErrRedLight):
			log.Warnf("junction %s: %v", j.id, err)
		case err != nil:
			log.Warnf("junction %s: vehicle cannot cross: %v", j.id, err)
		default:
			crossed = ok
		}
	}
	j.trafficLight.Observe(crossed)
	green.RefreshWaiting()
	if next, switched := j.trafficLight.Next(j.light, roads); switched {
		roads[j.light].SetLight(false)
		j.light = next
		roads[j.light].SetLight(true)
	}
}

// Snapshot 产生路口报告
// 功能：按注册顺序列出每条驶入道路的信号灯与等待车辆，自适应类型的绿灯道路带剩余时长
func (j *Junction) Snapshot(time int32) entity.JunctionReport {
	queues := lo.Map(j.IncomingRoads(), func(road entity.IRoad, _ int) entity.QueueReport {
		remaining, ok := 0, false
		if road.IsGreen() {
			remaining, ok = j.trafficLight.Remaining(road.ID())
		}
		return road.QueueState(remaining, ok)
	})
	return entity.JunctionReport{
		ID:     j.id,
		Time:   time,
		Type:   j.kind.Tag(),
		Queues: queues,
	}
}

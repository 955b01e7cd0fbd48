package road

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/container"
)

// arrival 本tick内到达道路终点的车辆及其到达时间
type arrival struct {
	vehicle entity.IVehicle
	time    float64
}

// Road 道路实体
// 功能：连接两个路口的单向道路，管理行驶中车辆、等待通过终点路口的车辆以及终点路口对本道路的信号灯
type Road struct {
	ctx entity.ITaskContext

	id         string
	kind       entity.RoadKind
	length     int
	speedLimit int
	lanes      int
	from, to   string // 起终点路口ID，通过JunctionManager解析
	policy     speedPolicy

	moving   []entity.IVehicle                // 行驶中车辆，按位置从前到后排序
	entered  map[string]uint64                // 车辆ID->驶入序号，用于同位置车辆排序
	enterSeq uint64                           // 下一个驶入序号
	waiting  *container.List[entity.IVehicle] // 等待队列，节点键值为到达时间
	arrivals []arrival                        // 本tick到达终点的车辆

	green bool // 终点路口对本道路的信号灯
}

// newRoad 创建并初始化一个新的Road实例
// 功能：根据创建参数构造Road对象，选择对应道路类型的车速规则
// 参数：ctx-任务上下文，attr-道路创建参数
// 返回：初始化完成的Road实例
// 说明：非高速路的车道数固定为1
func newRoad(ctx entity.ITaskContext, attr entity.RoadAttr) *Road {
	policy, ok := policies[attr.Kind]
	if !ok {
		log.Panicf("unknown road kind %d", attr.Kind)
	}
	lanes := 1
	if attr.Kind == entity.RoadHighway {
		lanes = attr.Lanes
	}
	r := &Road{
		ctx:        ctx,
		id:         attr.ID,
		kind:       attr.Kind,
		length:     attr.Length,
		speedLimit: attr.SpeedLimit,
		lanes:      lanes,
		from:       attr.From,
		to:         attr.To,
		policy:     policy,
		moving:     make([]entity.IVehicle, 0),
		entered:    make(map[string]uint64),
		waiting:    &container.List[entity.IVehicle]{ID: attr.ID},
		arrivals:   make([]arrival, 0),
	}
	return r
}

func (r *Road) String() string {
	return fmt.Sprintf("Road{ID:%s, From:%s, To:%s}", r.id, r.from, r.to)
}

func (r *Road) ID() string {
	return r.id
}

func (r *Road) Kind() entity.RoadKind {
	return r.kind
}

func (r *Road) Length() int {
	return r.length
}

func (r *Road) SpeedLimit() int {
	return r.speedLimit
}

func (r *Road) Lanes() int {
	return r.lanes
}

func (r *Road) From() string {
	return r.from
}

func (r *Road) To() string {
	return r.to
}

// Vehicles 获取行驶中车辆的副本
func (r *Road) Vehicles() []entity.IVehicle {
	return slices.Clone(r.moving)
}

// Waiting 按FIFO顺序获取等待车辆
func (r *Road) Waiting() []entity.IVehicle {
	return r.waiting.Values()
}

func (r *Road) NumWaiting() int {
	return r.waiting.Len()
}

func (r *Road) IsGreen() bool {
	return r.green
}

func (r *Road) SetLight(green bool) {
	r.green = green
}

// PushVehicle 车辆驶入道路
// 功能：将车辆追加到行驶队列末尾，并记录驶入顺序
func (r *Road) PushVehicle(v entity.IVehicle) {
	r.moving = append(r.moving, v)
	r.entered[v.ID()] = r.enterSeq
	r.enterSeq++
}

// PopVehicle 车辆离开行驶队列
// 返回：车辆不在行驶队列中时返回ErrNotExist
func (r *Road) PopVehicle(v entity.IVehicle) error {
	i := slices.IndexFunc(r.moving, func(o entity.IVehicle) bool { return o.ID() == v.ID() })
	if i < 0 {
		return fmt.Errorf("vehicle %s is not moving on road %s: %w", v.ID(), r.id, entity.ErrNotExist)
	}
	r.moving = slices.Delete(r.moving, i, i+1)
	return nil
}

// ArriveToWaiting 记录本tick到达终点的车辆，在本tick道路更新结束时进入等待队列
func (r *Road) ArriveToWaiting(v entity.IVehicle, arrivalTime float64) {
	r.arrivals = append(r.arrivals, arrival{vehicle: v, time: arrivalTime})
}

// MoveWaitingVehicle 让等待队列头部车辆通过终点路口
// 功能：绿灯时将队首的正常车辆移动到其行程中的下一条道路
// 返回：是否有车辆通过；红灯时返回ErrRedLight；车辆无法进入下一条道路时保留在队首并返回错误
// 说明：队列为空或队首车辆故障时不通过，也不视为错误
func (r *Road) MoveWaitingVehicle() (bool, error) {
	if !r.green {
		return false, fmt.Errorf("road %s: %w", r.id, entity.ErrRedLight)
	}
	node := r.waiting.First()
	if node == nil || node.Value.BreakdownTime() > 0 {
		return false, nil
	}
	v := node.Value
	seq := r.entered[v.ID()]
	// 先出队再移动，下一条道路可能就是本道路
	r.waiting.Remove(node)
	delete(r.entered, v.ID())
	if err := v.MoveToNextRoad(); err != nil {
		r.waiting.PushFront(node)
		r.entered[v.ID()] = seq
		return false, err
	}
	return true, nil
}

// RefreshWaiting 等待队列中故障车辆的故障时间减一
func (r *Road) RefreshWaiting() {
	for node := r.waiting.First(); node != nil; node = node.Next() {
		if node.Value.BreakdownTime() > 0 {
			node.Value.Recover()
		}
	}
}

// Proceed 推进一个tick
// 功能：为行驶中车辆设置速度并推进，然后重新排序，最后将到达终点的车辆放入等待队列
// 算法说明：
// 1. 复制当前行驶队列，车辆推进过程中可能离开行驶队列
// 2. 按道路类型规则设置每辆车的速度
// 3. 按顺序推进每辆车
// 4. 按位置从前到后排序，同位置按驶入顺序
// 5. 按到达时间升序（稳定排序）将本tick到达的车辆追加到等待队列
func (r *Road) Proceed() {
	vehicles := slices.Clone(r.moving)
	r.adjustSpeeds(vehicles)
	for _, v := range vehicles {
		v.Proceed()
	}
	r.sortMoving()
	r.flushArrivals()
}

func (r *Road) sortMoving() {
	slices.SortStableFunc(r.moving, func(a, b entity.IVehicle) int {
		if c := cmp.Compare(b.Location(), a.Location()); c != 0 {
			return c
		}
		return cmp.Compare(r.entered[a.ID()], r.entered[b.ID()])
	})
}

func (r *Road) flushArrivals() {
	slices.SortStableFunc(r.arrivals, func(a, b arrival) int {
		return cmp.Compare(a.time, b.time)
	})
	for _, a := range r.arrivals {
		r.waiting.PushBack(container.NewListNode(a.time, a.vehicle))
	}
	r.arrivals = r.arrivals[:0]
}

// QueueState 路口报告中本道路的队列状态
func (r *Road) QueueState(remaining int, hasRemaining bool) entity.QueueReport {
	return entity.QueueReport{
		RoadID:       r.id,
		Green:        r.green,
		Remaining:    remaining,
		HasRemaining: hasRemaining,
		Waiting:      lo.Map(r.Waiting(), func(v entity.IVehicle, _ int) string { return v.ID() }),
	}
}

// Snapshot 产生道路报告
// 功能：先列出等待车辆，再列出行驶中车辆，均带位置
func (r *Road) Snapshot(time int32) entity.RoadReport {
	toPosition := func(v entity.IVehicle, _ int) entity.VehiclePosition {
		return entity.VehiclePosition{VehicleID: v.ID(), Location: v.Location()}
	}
	return entity.RoadReport{
		ID:         r.id,
		Time:       time,
		Type:       r.kind.Tag(),
		From:       r.from,
		To:         r.to,
		Length:     r.length,
		SpeedLimit: r.speedLimit,
		State:      append(lo.Map(r.Waiting(), toPosition), lo.Map(r.moving, toPosition)...),
	}
}

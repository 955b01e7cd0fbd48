package task

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/clock"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity/junction"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity/road"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，独占路口、道路、车辆与事件队列
// 说明：所有状态修改都经由事件执行或引擎自身的推进阶段完成，不是并发安全的，
// 需要并发驱动时通过Stepper传递执行权
type Context struct {
	// 时钟
	clock *clock.Clock

	// Junction管理器
	junctionManager entity.IJunctionManager
	// Road管理器
	roadManager entity.IRoadManager
	// Vehicle管理器
	vehicleManager entity.IVehicleManager

	// 待执行事件
	events *event.Queue

	// 观察者
	listeners    []registration
	nextListener int
	// 报告输出
	sinks []Sink
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化时钟、各类管理器与事件队列
// 参数：sinks-每个tick结束后写入报告的输出（可选）
// 返回：初始化完成的Context实例
func NewContext(sinks ...Sink) *Context {
	ctx := &Context{
		clock:     clock.New(0),
		events:    event.NewQueue(),
		listeners: make([]registration, 0),
		sinks:     sinks,
	}
	ctx.junctionManager = junction.NewManager(ctx)
	ctx.roadManager = road.NewManager(ctx)
	ctx.vehicleManager = vehicle.NewManager(ctx)
	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) JunctionManager() entity.IJunctionManager {
	return ctx.junctionManager
}

func (ctx *Context) RoadManager() entity.IRoadManager {
	return ctx.roadManager
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

// Time 当前时刻
func (ctx *Context) Time() int32 {
	return ctx.clock.T
}

// Events 按时刻列出全部待执行事件
func (ctx *Context) Events() []event.Event {
	return ctx.events.Events()
}

// AddSink 增加报告输出
func (ctx *Context) AddSink(s Sink) {
	ctx.sinks = append(ctx.sinks, s)
}

// Snapshot 产生当前时刻全部实体的报告，顺序为路口、道路、车辆，各自按注册顺序
func (ctx *Context) Snapshot() *entity.Snapshot {
	t := ctx.clock.T
	return &entity.Snapshot{
		Time:      t,
		Junctions: ctx.junctionManager.Snapshots(t),
		Roads:     ctx.roadManager.Snapshots(t),
		Vehicles:  ctx.vehicleManager.Snapshots(t),
	}
}

// Reports 产生指定实体的报告
// 功能：ids为空时返回全部报告，否则只包含ID匹配的路口、道路、车辆，保持ids中的顺序
// 返回：报告与没有匹配任何实体的ID
func (ctx *Context) Reports(ids ...string) (*entity.Snapshot, []string) {
	if len(ids) == 0 {
		return ctx.Snapshot(), nil
	}
	t := ctx.clock.T
	junctions, missJ := utils.Find(
		lo.SliceToMap(ctx.junctionManager.Junctions(), func(j entity.IJunction) (string, entity.IJunction) { return j.ID(), j }),
		ids,
	)
	roads, missR := utils.Find(
		lo.SliceToMap(ctx.roadManager.Roads(), func(r entity.IRoad) (string, entity.IRoad) { return r.ID(), r }),
		ids,
	)
	vehicles, missV := utils.Find(
		lo.SliceToMap(ctx.vehicleManager.Vehicles(), func(v entity.IVehicle) (string, entity.IVehicle) { return v.ID(), v }),
		ids,
	)
	missing := lo.Intersect(missJ, lo.Intersect(missR, missV))
	return &entity.Snapshot{
		Time:      t,
		Junctions: lo.Map(junctions, func(j entity.IJunction, _ int) entity.JunctionReport { return j.Snapshot(t) }),
		Roads:     lo.Map(roads, func(r entity.IRoad, _ int) entity.RoadReport { return r.Snapshot(t) }),
		Vehicles:  lo.Map(vehicles, func(v entity.IVehicle, _ int) entity.VehicleReport { return v.Snapshot(t) }),
	}, missing
}

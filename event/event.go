// 模拟事件：在指定时刻创建路口、道路、车辆或使车辆故障
// 事件类型是封闭集合，只能由本包构造
package event

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// Event 模拟事件
type Event interface {
	// 执行时刻
	Time() int32
	// 在模拟上下文中执行，路口/道路/车辆ID冲突返回ErrAlreadyExists，引用不存在返回ErrNotExist
	Execute(ctx entity.ITaskContext) error
	// 可读的事件描述
	Description() string
	// 执行时刻与事件内容均相同
	Equal(other Event) bool

	isEvent()
}

type base struct {
	time int32
}

func (b base) Time() int32 {
	return b.time
}

func (base) isEvent() {}

// NewJunction 创建路口事件
type NewJunction struct {
	base
	Attr entity.JunctionAttr
}

// NewJunctionEvent 创建路口事件
// 参数：time-执行时刻，attr-路口创建参数，Kind决定路口类型
func NewJunctionEvent(time int32, attr entity.JunctionAttr) *NewJunction {
	return &NewJunction{base: base{time: time}, Attr: attr}
}

func (e *NewJunction) Execute(ctx entity.ITaskContext) error {
	_, err := ctx.JunctionManager().New(e.Attr)
	return err
}

func (e *NewJunction) Description() string {
	switch e.Attr.Kind {
	case entity.JunctionRoundRobin:
		return "New robin junction " + e.Attr.ID
	case entity.JunctionMostCrowded:
		return "New crowded junction " + e.Attr.ID
	default:
		return "New junction " + e.Attr.ID
	}
}

func (e *NewJunction) Equal(other Event) bool {
	o, ok := other.(*NewJunction)
	return ok && e.time == o.time && e.Attr == o.Attr
}

// NewRoad 创建道路事件
type NewRoad struct {
	base
	Attr entity.RoadAttr
}

// NewRoadEvent 创建道路事件
// 参数：time-执行时刻，attr-道路创建参数，Kind决定道路类型
func NewRoadEvent(time int32, attr entity.RoadAttr) *NewRoad {
	return &NewRoad{base: base{time: time}, Attr: attr}
}

func (e *NewRoad) Execute(ctx entity.ITaskContext) error {
	_, err := ctx.RoadManager().New(e.Attr)
	return err
}

func (e *NewRoad) Description() string {
	switch e.Attr.Kind {
	case entity.RoadHighway:
		return "New highway road " + e.Attr.ID
	case entity.RoadDirt:
		return "New dirt road " + e.Attr.ID
	default:
		return "New road " + e.Attr.ID
	}
}

func (e *NewRoad) Equal(other Event) bool {
	o, ok := other.(*NewRoad)
	return ok && e.time == o.time && e.Attr == o.Attr
}

// NewVehicle 创建车辆事件
type NewVehicle struct {
	base
	Attr entity.VehicleAttr
}

// NewVehicleEvent 创建车辆事件
// 参数：time-执行时刻，attr-车辆创建参数，Kind决定车辆类型
func NewVehicleEvent(time int32, attr entity.VehicleAttr) *NewVehicle {
	attr.Itinerary = slices.Clone(attr.Itinerary)
	return &NewVehicle{base: base{time: time}, Attr: attr}
}

func (e *NewVehicle) Execute(ctx entity.ITaskContext) error {
	_, err := ctx.VehicleManager().New(e.Attr)
	return err
}

func (e *NewVehicle) Description() string {
	switch e.Attr.Kind {
	case entity.VehicleCar:
		return "New car vehicle " + e.Attr.ID
	case entity.VehicleBike:
		return "New bike vehicle " + e.Attr.ID
	default:
		return "New vehicle " + e.Attr.ID
	}
}

func (e *NewVehicle) Equal(other Event) bool {
	o, ok := other.(*NewVehicle)
	if !ok || e.time != o.time {
		return false
	}
	a, b := e.Attr, o.Attr
	return a.ID == b.ID && a.Kind == b.Kind && a.MaxSpeed == b.MaxSpeed &&
		slices.Equal(a.Itinerary, b.Itinerary) &&
		a.Resistance == b.Resistance && a.FaultProbability == b.FaultProbability &&
		a.MaxFaultDuration == b.MaxFaultDuration && a.Seed == b.Seed
}

// FaultyVehicle 车辆故障事件
type FaultyVehicle struct {
	base
	VehicleIDs []string
	Duration   int
}

// NewFaultyVehicleEvent 创建车辆故障事件
// 参数：time-执行时刻，ids-故障车辆ID，duration-故障时长
func NewFaultyVehicleEvent(time int32, ids []string, duration int) *FaultyVehicle {
	return &FaultyVehicle{base: base{time: time}, VehicleIDs: slices.Clone(ids), Duration: duration}
}

// Execute 按顺序为每辆车累加故障时间
// 说明：遇到不存在的车辆立即返回ErrNotExist，已处理的车辆不回滚
func (e *FaultyVehicle) Execute(ctx entity.ITaskContext) error {
	for _, id := range e.VehicleIDs {
		v, err := ctx.VehicleManager().GetOrError(id)
		if err != nil {
			return fmt.Errorf("faulty vehicle event at %d: %w", e.time, err)
		}
		v.AddBreakdownTime(e.Duration)
	}
	return nil
}

func (e *FaultyVehicle) Description() string {
	return fmt.Sprintf("Break vehicles [%s] for %d units of time", strings.Join(e.VehicleIDs, ","), e.Duration)
}

func (e *FaultyVehicle) Equal(other Event) bool {
	o, ok := other.(*FaultyVehicle)
	return ok && e.time == o.time && e.Duration == o.Duration && slices.Equal(e.VehicleIDs, o.VehicleIDs)
}

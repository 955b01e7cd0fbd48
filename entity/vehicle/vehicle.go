package vehicle

import (
	"fmt"
	"slices"

	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// Vehicle 车辆实体
// 功能：沿途经路口序列行驶的车辆，记录所在道路、位置、速度、里程与故障状态
type Vehicle struct {
	ctx entity.ITaskContext

	id        string
	kind      entity.VehicleKind
	maxSpeed  int
	itinerary []string // 途经路口ID
	tripPos   int      // 最近经过的路口在itinerary中的下标

	road        entity.IRoad // 当前道路，到达终点后保留最后一条道路
	location    int          // 在当前道路上的位置
	speed       int          // 当前速度
	kilometrage int          // 累计行驶距离
	breakdown   int          // 剩余故障时间
	arrived     bool         // 是否已到达终点

	fault faultPolicy
}

// newVehicle 创建车辆
// 功能：根据创建参数构造Vehicle，选择对应车辆类型的故障规则
// 参数：ctx-任务上下文，attr-车辆创建参数
// 返回：尚未上路的Vehicle实例
func newVehicle(ctx entity.ITaskContext, attr entity.VehicleAttr) *Vehicle {
	return &Vehicle{
		ctx:       ctx,
		id:        attr.ID,
		kind:      attr.Kind,
		maxSpeed:  attr.MaxSpeed,
		itinerary: slices.Clone(attr.Itinerary),
		fault:     newFaultPolicy(attr),
	}
}

// enter 驶入行程中的第一条道路
func (v *Vehicle) enter() error {
	road, err := v.roadBetween(0, 1)
	if err != nil {
		return err
	}
	v.road = road
	v.location = 0
	road.PushVehicle(v)
	return nil
}

// roadBetween 查找itinerary[i]到itinerary[j]的道路
func (v *Vehicle) roadBetween(i, j int) (entity.IRoad, error) {
	from, err := v.ctx.JunctionManager().GetOrError(v.itinerary[i])
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", v.id, err)
	}
	road, err := from.RoadTo(v.itinerary[j])
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", v.id, err)
	}
	return road, nil
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{ID:%s, Road:%v, Location:%d}", v.id, v.road, v.location)
}

func (v *Vehicle) ID() string {
	return v.id
}

func (v *Vehicle) Kind() entity.VehicleKind {
	return v.kind
}

func (v *Vehicle) MaxSpeed() int {
	return v.maxSpeed
}

func (v *Vehicle) Speed() int {
	return v.speed
}

func (v *Vehicle) Location() int {
	return v.location
}

func (v *Vehicle) Kilometrage() int {
	return v.kilometrage
}

func (v *Vehicle) BreakdownTime() int {
	return v.breakdown
}

func (v *Vehicle) Arrived() bool {
	return v.arrived
}

func (v *Vehicle) Road() entity.IRoad {
	return v.road
}

func (v *Vehicle) Itinerary() []string {
	return slices.Clone(v.itinerary)
}

// SetSpeed 设置本tick的速度
// 功能：正常车辆取道路给出速度与最大速度的较小值，故障车辆速度为0
func (v *Vehicle) SetSpeed(roadSpeed int) {
	if v.breakdown == 0 {
		v.speed = min(roadSpeed, v.maxSpeed)
	} else {
		v.speed = 0
	}
}

// AddBreakdownTime 外部引发的故障，故障时间累加
// 说明：自行车速度不超过最大速度一半时忽略
func (v *Vehicle) AddBreakdownTime(ticks int) {
	if !v.fault.acceptFault(v) {
		log.Debugf("vehicle %s ignores fault of %d ticks at speed %d", v.id, ticks, v.speed)
		return
	}
	v.breakdown += ticks
}

// Recover 故障时间减一
func (v *Vehicle) Recover() {
	if v.breakdown > 0 {
		v.breakdown--
	}
}

// Proceed 推进一个tick
// 功能：故障车辆只减少故障时间；正常车辆按当前速度前进，到达道路终点时离开行驶队列并登记到达
// 算法说明：
// 1. 按车辆类型判定是否新发生故障
// 2. 故障时故障时间减一，不移动
// 3. 位置加速度不小于道路长度时，里程只增加剩余距离，位置置为道路长度，速度清零，登记到达时间
// 4. 否则位置与里程均增加速度
func (v *Vehicle) Proceed() {
	v.fault.beforeProceed(v)
	before := v.kilometrage
	if v.breakdown > 0 {
		v.breakdown--
	} else if v.location+v.speed >= v.road.Length() {
		remaining := v.road.Length() - v.location
		v.kilometrage += remaining
		if err := v.road.PopVehicle(v); err != nil {
			log.Panicf("vehicle %s reached the end of a road it is not moving on: %v", v.id, err)
		}
		arrivalTime := 0.0
		if remaining > 0 {
			arrivalTime = float64(v.speed) / float64(remaining)
		}
		v.road.ArriveToWaiting(v, arrivalTime)
		v.location = v.road.Length()
		v.speed = 0
	} else {
		v.location += v.speed
		v.kilometrage += v.speed
	}
	v.fault.afterProceed(v, v.kilometrage-before)
}

// MoveToNextRoad 通过路口
// 功能：已到达行程最后一个路口时标记到达，否则进入下一段道路的起点
// 返回：下一段道路不存在时返回ErrNotExist，车辆状态不变
func (v *Vehicle) MoveToNextRoad() error {
	waitingPos := v.tripPos + 1
	nextPos := waitingPos + 1
	if nextPos == len(v.itinerary) {
		v.arrived = true
		v.speed = 0
	} else {
		road, err := v.roadBetween(waitingPos, nextPos)
		if err != nil {
			return err
		}
		v.road = road
		v.location = 0
		road.PushVehicle(v)
	}
	v.tripPos++
	return nil
}

// Snapshot 产生车辆报告
func (v *Vehicle) Snapshot(time int32) entity.VehicleReport {
	r := entity.VehicleReport{
		ID:          v.id,
		Time:        time,
		Type:        v.kind.Tag(),
		Speed:       v.speed,
		Kilometrage: v.kilometrage,
		Faulty:      v.breakdown,
		Arrived:     v.arrived,
		Location:    v.location,
		Itinerary:   slices.Clone(v.itinerary),
	}
	if v.road != nil {
		r.Road = v.road.ID()
	}
	return r
}

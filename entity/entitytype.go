package entity

import (
	"errors"
)

var (
	// 创建对象时ID已被占用
	ErrAlreadyExists = errors.New("object already exists in simulation")
	// 引用的路口/道路/车辆不存在
	ErrNotExist = errors.New("object does not exist in simulation")
	// 红灯时试图让等待车辆通过路口
	ErrRedLight = errors.New("tried to advance waiting vehicle with red traffic light")
)

// 路口类型
type JunctionKind int32

const (
	JunctionBasic       JunctionKind = iota // 固定轮转
	JunctionRoundRobin                      // 自适应轮转（绿灯时长在[min, max]内调整）
	JunctionMostCrowded                     // 最拥挤优先
)

// Tag 报告中使用的类型标签，基础类型为空
func (k JunctionKind) Tag() string {
	switch k {
	case JunctionRoundRobin:
		return "rr"
	case JunctionMostCrowded:
		return "mc"
	default:
		return ""
	}
}

// 道路类型
type RoadKind int32

const (
	RoadBasic   RoadKind = iota // 普通道路
	RoadHighway                 // 多车道高速路
	RoadDirt                    // 土路
)

// Tag 报告中使用的类型标签，基础类型为空
func (k RoadKind) Tag() string {
	switch k {
	case RoadHighway:
		return "lanes"
	case RoadDirt:
		return "dirt"
	default:
		return ""
	}
}

// 车辆类型
type VehicleKind int32

const (
	VehicleBasic VehicleKind = iota // 普通车辆
	VehicleCar                      // 会随机故障的汽车
	VehicleBike                     // 自行车
)

// Tag 报告中使用的类型标签，基础类型为空
func (k VehicleKind) Tag() string {
	switch k {
	case VehicleCar:
		return "car"
	case VehicleBike:
		return "bike"
	default:
		return ""
	}
}

// 路口创建参数
type JunctionAttr struct {
	ID           string
	Kind         JunctionKind
	MinTimeSlice int // 自适应轮转的最短绿灯时长
	MaxTimeSlice int // 自适应轮转的最长绿灯时长
}

// 道路创建参数
type RoadAttr struct {
	ID         string
	Kind       RoadKind
	Length     int
	SpeedLimit int
	From       string // 起点路口ID
	To         string // 终点路口ID
	Lanes      int    // 高速路车道数
}

// 车辆创建参数
type VehicleAttr struct {
	ID        string
	Kind      VehicleKind
	MaxSpeed  int
	Itinerary []string // 途经路口ID序列，至少2个

	// 汽车故障参数

	Resistance       int     // 上次故障后需要行驶超过的距离
	FaultProbability float64 // 每tick故障概率
	MaxFaultDuration int     // 故障时长上限
	Seed             int64   // 随机数种子
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	String() string

	// 获取路口ID
	ID() string
	// 获取路口类型
	Kind() JunctionKind
	// 按注册顺序获取驶入道路
	IncomingRoads() []IRoad
	// 按注册顺序获取驶出道路
	OutgoingRoads() []IRoad
	// 当前绿灯道路在驶入道路中的下标，-1表示未初始化
	GreenIndex() int

	// 注册驶入道路
	AddIncomingRoad(road IRoad)
	// 注册驶出道路
	AddOutgoingRoad(road IRoad)
	// 查找从本路口到目标路口的道路，不存在则返回ErrNotExist
	RoadTo(junctionID string) (IRoad, error)

	// 推进一个tick：初始化信号灯或放行车辆并轮转信号灯
	Proceed()
	// 产生路口报告
	Snapshot(time int32) JunctionReport
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	String() string

	ID() string
	Kind() RoadKind
	Length() int
	SpeedLimit() int
	// 车道数，非高速路为1
	Lanes() int
	// 起点路口ID
	From() string
	// 终点路口ID
	To() string
	// 行驶中车辆，按位置从前到后排序
	Vehicles() []IVehicle
	// 等待通过路口的车辆，FIFO顺序
	Waiting() []IVehicle
	NumWaiting() int
	// 终点路口对本道路是否为绿灯
	IsGreen() bool

	SetLight(green bool)
	// 车辆驶入道路起点
	PushVehicle(v IVehicle)
	// 车辆离开行驶队列
	PopVehicle(v IVehicle) error
	// 车辆到达道路终点，本tick结束时按到达时间进入等待队列
	ArriveToWaiting(v IVehicle, arrivalTime float64)
	// 让等待队列头部车辆通过路口，队列为空时返回false
	MoveWaitingVehicle() (bool, error)
	// 等待队列中故障车辆的故障时间减一
	RefreshWaiting()
	// 产生路口报告中本道路的队列状态
	QueueState(remaining int, hasRemaining bool) QueueReport

	// 推进一个tick
	Proceed()
	// 产生道路报告
	Snapshot(time int32) RoadReport
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	String() string

	ID() string
	Kind() VehicleKind
	MaxSpeed() int
	Speed() int
	// 在当前道路上的位置
	Location() int
	// 累计行驶距离
	Kilometrage() int
	// 剩余故障时间，0表示正常
	BreakdownTime() int
	Arrived() bool
	// 当前所在道路，未上路时为nil
	Road() IRoad
	Itinerary() []string

	// 根据道路给出的速度设置当前速度
	SetSpeed(roadSpeed int)
	// 外部引发的故障
	AddBreakdownTime(ticks int)
	// 故障时间减一，不低于0
	Recover()
	// 通过路口进入下一条道路或到达终点
	MoveToNextRoad() error

	// 推进一个tick
	Proceed()
	// 产生车辆报告
	Snapshot(time int32) VehicleReport
}

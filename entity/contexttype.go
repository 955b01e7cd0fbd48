package entity

import (
	"github.com/tsinghua-fib-lab/trafficsim-oss/clock"
)

// 事件执行与实体更新时可见的模拟器上下文
type ITaskContext interface {
	Clock() *clock.Clock
	JunctionManager() IJunctionManager
	RoadManager() IRoadManager
	VehicleManager() IVehicleManager
}

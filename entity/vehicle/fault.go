package vehicle

import (
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/randengine"
)

// faultPolicy 车辆类型对应的故障规则
type faultPolicy interface {
	// 推进前调用，可能引发车辆自身的故障
	beforeProceed(v *Vehicle)
	// 推进后调用，moved为本tick增加的里程
	afterProceed(v *Vehicle, moved int)
	// 是否接受外部引发的故障
	acceptFault(v *Vehicle) bool
}

func newFaultPolicy(attr entity.VehicleAttr) faultPolicy {
	switch attr.Kind {
	case entity.VehicleCar:
		return &carFault{
			resistance:  attr.Resistance,
			probability: attr.FaultProbability,
			maxDuration: attr.MaxFaultDuration,
			generator:   randengine.New(uint64(attr.Seed)),
		}
	case entity.VehicleBike:
		return bikeFault{}
	default:
		return basicFault{}
	}
}

// basicFault 普通车辆：只有外部引发的故障
type basicFault struct{}

func (basicFault) beforeProceed(*Vehicle) {}
func (basicFault) afterProceed(*Vehicle, int) {}
func (basicFault) acceptFault(*Vehicle) bool { return true }

// bikeFault 自行车：只有车速超过最大速度一半时才接受外部引发的故障
type bikeFault struct {
	basicFault
}

func (bikeFault) acceptFault(v *Vehicle) bool {
	return v.speed > v.maxSpeed/2
}

// carFault 汽车：自上次故障以来行驶超过resistance后，每tick以一定概率随机故障
type carFault struct {
	resistance  int
	probability float64
	maxDuration int
	generator   *randengine.Engine

	kmSinceFault int // 自上次故障以来行驶的距离
}

// beforeProceed 故障判定
// 算法说明：
// 1. 正常且自上次故障以来行驶距离超过resistance时，以probability概率故障，时长在[1, maxDuration]内随机
// 2. 处于故障状态时清零行驶距离与速度
func (f *carFault) beforeProceed(v *Vehicle) {
	if v.breakdown == 0 && f.kmSinceFault > f.resistance {
		if f.generator.PTrue(f.probability) {
			v.breakdown += f.generator.IntRange(1, f.maxDuration)
		}
	}
	if v.breakdown > 0 {
		f.kmSinceFault = 0
		v.speed = 0
	}
}

func (f *carFault) afterProceed(_ *Vehicle, moved int) {
	f.kmSinceFault += moved
}

func (*carFault) acceptFault(*Vehicle) bool {
	return true
}

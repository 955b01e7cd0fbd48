package road

import (
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// speedPolicy 道路类型对应的车速计算规则
// 功能：描述一类道路如何计算基础车速，以及前方故障车辆如何放大减速系数
type speedPolicy struct {
	// 基础车速，n为当前行驶中车辆数
	baseSpeed func(r *Road, n int) int
	// 经过一辆车后的减速系数，broken为已经过的故障车辆数，isBroken表示刚经过的车辆是否故障
	nextFactor func(r *Road, factor, broken int, isBroken bool) int
}

var policies = map[entity.RoadKind]speedPolicy{
	entity.RoadBasic: {
		baseSpeed: func(r *Road, n int) int {
			return min(r.speedLimit, r.speedLimit/max(n, 1)+1)
		},
		nextFactor: func(_ *Road, factor, _ int, isBroken bool) int {
			if isBroken {
				return 2
			}
			return factor
		},
	},
	entity.RoadHighway: {
		baseSpeed: func(r *Road, n int) int {
			return min(r.speedLimit, r.speedLimit*r.lanes/max(n, 1)+1)
		},
		nextFactor: func(r *Road, factor, broken int, _ bool) int {
			if broken >= r.lanes {
				return 2
			}
			return factor
		},
	},
	entity.RoadDirt: {
		baseSpeed: func(r *Road, _ int) int {
			return r.speedLimit
		},
		nextFactor: func(_ *Road, factor, _ int, isBroken bool) int {
			if isBroken {
				return factor + 1
			}
			return factor
		},
	},
}

// BaseSpeed 当前行驶车辆数下道路的基础车速
func (r *Road) BaseSpeed() int {
	return r.policy.baseSpeed(r, len(r.moving))
}

// adjustSpeeds 按从前到后的顺序为车辆设置本tick的速度
// 算法说明：
// 1. 所有车辆共享同一基础车速
// 2. 每辆车的速度为基础车速除以当前减速系数
// 3. 经过一辆车后，根据其是否故障更新减速系数，只影响其后的车辆
func (r *Road) adjustSpeeds(vehicles []entity.IVehicle) {
	base := r.BaseSpeed()
	factor, broken := 1, 0
	for _, v := range vehicles {
		v.SetSpeed(base / factor)
		isBroken := v.BreakdownTime() > 0
		if isBroken {
			broken++
		}
		factor = r.policy.nextFactor(r, factor, broken, isBroken)
	}
}

// 随机数引擎，包装golang.org/x/exp/rand，每辆会随机故障的车辆持有一个独立实例
package randengine

import (
	"flag"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "offset added to every vehicle seed")
)

// Engine 随机数引擎
// 功能：同一种子（及同一偏移量）产生同一序列，使仿真结果可复现
// 说明：非线程安全，每个实例只应由一辆车使用
type Engine struct {
	*rand.Rand
}

// New 以seed+偏移量为种子创建随机数引擎
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// PTrue 以概率p返回true
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// IntRange 闭区间[lo, hi]内的均匀随机整数
// 说明：hi <= lo 时返回lo，不消耗随机数
func (e *Engine) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.Intn(hi-lo+1)
}

// 提供固定轮转信号灯控制算法
// 每个tick结束都把绿灯交给注册顺序中的下一条驶入道路
package trafficlight

import (
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// fixedTrafficLight 固定轮转信号灯控制器
type fixedTrafficLight struct {
	junctionID string // 所属junction ID
}

// NewFixedTrafficLight 创建固定轮转信号灯控制器
// 参数：junctionID-路口ID
// 返回：信号灯控制器实例
func NewFixedTrafficLight(junctionID string) *fixedTrafficLight {
	return &fixedTrafficLight{junctionID: junctionID}
}

// AddRoad 固定轮转不需要记录道路信息
func (l *fixedTrafficLight) AddRoad(string) {}

// First 首个绿灯总是第一条驶入道路
func (l *fixedTrafficLight) First([]entity.IRoad) int {
	return 0
}

// Observe 固定轮转不关心通行情况
func (l *fixedTrafficLight) Observe(bool) {}

// Next 每个tick都切换到下一条驶入道路
func (l *fixedTrafficLight) Next(cur int, roads []entity.IRoad) (int, bool) {
	return (cur + 1) % len(roads), true
}

// Remaining 固定轮转不报告剩余时长
func (l *fixedTrafficLight) Remaining(string) (int, bool) {
	return 0, false
}

// 提供自适应轮转信号灯控制算法
// 按注册顺序轮转，每条驶入道路的绿灯时长根据上一次绿灯期间的通行情况在[min, max]内调整
package trafficlight

import (
	"fmt"

	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// adaptiveTrafficLight 自适应轮转信号灯控制器
// 功能：绿灯期间没有任何车辆通过则下次时长减一，每个tick都有车辆通过则下次时长加一
type adaptiveTrafficLight struct {
	junctionID string
	minTime    int            // 最短绿灯时长
	maxTime    int            // 最长绿灯时长
	timeLapses map[string]int // 驶入道路ID->绿灯时长

	elapsed int  // 当前绿灯已持续的tick数
	useless bool // 当前绿灯期间没有车辆通过
	useful  bool // 当前绿灯期间每个tick都有车辆通过
}

// NewAdaptiveTrafficLight 创建自适应轮转信号灯控制器
// 参数：junctionID-路口ID，minTime-最短绿灯时长，maxTime-最长绿灯时长
// 返回：信号灯控制器实例
func NewAdaptiveTrafficLight(junctionID string, minTime, maxTime int) *adaptiveTrafficLight {
	return &adaptiveTrafficLight{
		junctionID: junctionID,
		minTime:    minTime,
		maxTime:    maxTime,
		timeLapses: make(map[string]int),
		useless:    true,
		useful:     true,
	}
}

// AddRoad 新注册的驶入道路绿灯时长为最长时长
func (l *adaptiveTrafficLight) AddRoad(roadID string) {
	l.timeLapses[roadID] = l.maxTime
}

// First 首个绿灯是第一条驶入道路
func (l *adaptiveTrafficLight) First([]entity.IRoad) int {
	return 0
}

// Observe 记录本tick绿灯道路是否有车辆通过
func (l *adaptiveTrafficLight) Observe(crossed bool) {
	if crossed {
		l.useless = false
	} else {
		l.useful = false
	}
}

// Next 推进绿灯计时
// 功能：绿灯持续时间达到该道路的绿灯时长后，调整其时长并切换到下一条驶入道路
// 参数：cur-当前绿灯道路下标，roads-驶入道路
// 返回：新的绿灯道路下标，是否切换
// 算法说明：
// 1. 已持续时间加一
// 2. 未达到时长则保持
// 3. 整个绿灯期间无车辆通过，时长减一但不低于最短时长
// 4. 整个绿灯期间每个tick都有车辆通过，时长加一但不超过最长时长
// 5. 切换到下一条道路并重置计时与通行记录
func (l *adaptiveTrafficLight) Next(cur int, roads []entity.IRoad) (int, bool) {
	roadID := roads[cur].ID()
	lapse, ok := l.timeLapses[roadID]
	if !ok {
		log.Panicf("junction %s: road %s is not registered in traffic light", l.junctionID, roadID)
	}
	l.elapsed++
	if l.elapsed < lapse {
		return cur, false
	}
	switch {
	case l.useless:
		lapse = max(lapse-1, l.minTime)
	case l.useful:
		lapse = min(lapse+1, l.maxTime)
	}
	l.timeLapses[roadID] = lapse
	l.elapsed = 0
	l.useless = true
	l.useful = true
	return (cur + 1) % len(roads), true
}

// Remaining 绿灯剩余时长
func (l *adaptiveTrafficLight) Remaining(roadID string) (int, bool) {
	lapse, ok := l.timeLapses[roadID]
	if !ok {
		return 0, false
	}
	return lapse - l.elapsed, true
}

// TimeLapse 驶入道路当前的绿灯时长
func (l *adaptiveTrafficLight) TimeLapse(roadID string) (int, error) {
	lapse, ok := l.timeLapses[roadID]
	if !ok {
		return 0, fmt.Errorf("junction %s: road %s: %w", l.junctionID, roadID, entity.ErrNotExist)
	}
	return lapse, nil
}

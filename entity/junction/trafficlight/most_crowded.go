// 提供最拥挤优先信号灯控制算法
// 不会按照注册顺序轮转，而是在每个绿灯结束后选取等待车辆最多的驶入道路，
// 车辆数相同时优先选取注册顺序中紧随当前绿灯道路之后的道路
package trafficlight

import (
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/container"
)

// mostCrowdedTrafficLight 最拥挤优先信号灯控制器
// 功能：绿灯时长为被选中道路等待车辆数的一半，至少为1
type mostCrowdedTrafficLight struct {
	junctionID string
	timeLapses map[string]int // 驶入道路ID->最近一次被选中时确定的绿灯时长
	elapsed    int            // 当前绿灯已持续的tick数
}

// NewMostCrowdedTrafficLight 创建最拥挤优先信号灯控制器
// 参数：junctionID-路口ID
// 返回：信号灯控制器实例
func NewMostCrowdedTrafficLight(junctionID string) *mostCrowdedTrafficLight {
	return &mostCrowdedTrafficLight{
		junctionID: junctionID,
		timeLapses: make(map[string]int),
	}
}

// AddRoad 新注册的驶入道路在被选中前没有绿灯时长
func (l *mostCrowdedTrafficLight) AddRoad(roadID string) {
	l.timeLapses[roadID] = 0
}

// First 首个绿灯是等待车辆最多的道路，并列时取注册顺序最靠前的
func (l *mostCrowdedTrafficLight) First(roads []entity.IRoad) int {
	return l.choose(-1, roads)
}

// Observe 最拥挤优先不关心通行情况
func (l *mostCrowdedTrafficLight) Observe(bool) {}

// Next 推进绿灯计时
// 功能：绿灯持续时间达到时长后，重新选取等待车辆最多的道路（可能仍是当前道路）
// 参数：cur-当前绿灯道路下标，roads-驶入道路
// 返回：新的绿灯道路下标，是否切换
func (l *mostCrowdedTrafficLight) Next(cur int, roads []entity.IRoad) (int, bool) {
	l.elapsed++
	if l.elapsed < l.timeLapses[roads[cur].ID()] {
		return cur, false
	}
	l.elapsed = 0
	return l.choose(cur, roads), true
}

// choose 选取等待车辆最多的道路并确定其绿灯时长
// 算法说明：
// 1. 以等待车辆数为压力，从cur的下一条道路开始按注册顺序循环计算距离
// 2. 压力越大越优先，压力相同距离越小越优先，用小顶堆取出最优道路
// 3. 绿灯时长为max(等待车辆数/2, 1)
func (l *mostCrowdedTrafficLight) choose(cur int, roads []entity.IRoad) int {
	n := len(roads)
	heap := container.NewPriorityQueue[int]()
	for i, road := range roads {
		distance := ((i-cur-1)%n + n) % n
		// 距离小于n，不会越过车辆数的整数间隔
		priority := -float64(road.NumWaiting()) + float64(distance)/float64(n)
		heap.Push(i, priority)
	}
	heap.Heapify()
	chosen, _ := heap.HeapPop()
	l.timeLapses[roads[chosen].ID()] = max(roads[chosen].NumWaiting()/2, 1)
	log.Debugf("junction %s chooses road %s with %d waiting vehicles", l.junctionID, roads[chosen].ID(), roads[chosen].NumWaiting())
	return chosen
}

// Remaining 绿灯剩余时长
func (l *mostCrowdedTrafficLight) Remaining(roadID string) (int, bool) {
	lapse, ok := l.timeLapses[roadID]
	if !ok {
		return 0, false
	}
	return lapse - l.elapsed, true
}

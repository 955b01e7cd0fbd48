package junction

import (
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// 依赖倒置，表达junction对信号灯实现的接口需求

// 信号灯接口
// 路口按注册顺序维护驶入道路，信号灯只决定绿灯道路的下标与时长
type ITrafficLight interface {
	AddRoad(roadID string)                          // 注册驶入道路
	First(roads []entity.IRoad) int                 // 首次选择绿灯道路
	Observe(crossed bool)                           // 记录本tick绿灯道路是否有车辆通过
	Next(cur int, roads []entity.IRoad) (int, bool) // 推进计时，返回新的绿灯下标与是否切换
	Remaining(roadID string) (int, bool)            // 绿灯剩余时长，不支持时返回false
}

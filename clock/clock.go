package clock

import (
	"fmt"
)

// Clock 仿真时钟
// 功能：管理离散仿真的时间推进，每个tick推进一个时间单位
// 说明：时钟只由引擎在一个tick的所有阶段完成后推进，重置时回到起始时间
type Clock struct {
	START_STEP int32 // 起始步
	T          int32 // 当前时间（tick）
}

// New 创建新的时钟实例
// 功能：以给定的起始步初始化时钟
// 参数：start-起始步
// 返回：初始化完成的时钟实例
func New(start int32) *Clock {
	c := &Clock{START_STEP: start}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：将当前时间重置为起始步
func (c *Clock) Init() {
	c.T = c.START_STEP
}

// Step 推进一个tick
func (c *Clock) Step() {
	c.T++
}

// String 获取时钟的字符串表示
func (c *Clock) String() string {
	return fmt.Sprintf("tick %d", c.T)
}

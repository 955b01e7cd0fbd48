package task

import (
	"flag"
	"fmt"

	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// PushEvent 加入事件
// 功能：检查事件时刻不早于当前时刻后加入事件队列，并通知观察者
// 返回：事件时刻早于当前时刻时返回ErrPastEvent，队列与观察者均不受影响
func (ctx *Context) PushEvent(e event.Event) error {
	if err := ctx.events.Push(e, ctx.clock.T); err != nil {
		return err
	}
	ctx.notify(NewEvent{Time: ctx.clock.T, Event: e, Events: ctx.events.Events()})
	return nil
}

// executeEvents 执行当前时刻的全部事件
// 说明：任一事件失败立即返回，之后的事件不再执行
func (ctx *Context) executeEvents() error {
	now := ctx.clock.T
	for _, e := range ctx.events.PopDue(now) {
		log.Debugf("tick %d: execute `%s`", now, e.Description())
		if err := e.Execute(ctx); err != nil {
			return fmt.Errorf("tick %d: %s: %w", now, e.Description(), err)
		}
	}
	return nil
}

// update 更新阶段，先按注册顺序推进所有道路，再推进所有路口
func (ctx *Context) update() {
	ctx.roadManager.Update()
	ctx.junctionManager.Update()
}

// Tick 执行一个tick
// 功能：执行到期事件，推进道路与路口，推进时钟，产生报告并通知观察者
// 返回：事件执行失败时返回错误，此时不推进任何实体与时钟，并向观察者发送Error；
// 报告输出失败时返回错误，此时时钟已推进
// 算法说明：
// 1. 取出时刻恰好为当前时刻的事件，按加入顺序执行
// 2. 按注册顺序推进所有道路（车辆在此阶段移动）
// 3. 按注册顺序推进所有路口（车辆在此阶段通过路口）
// 4. 时钟加一
// 5. 产生全部实体的报告，发送Advanced通知并写入报告输出
func (ctx *Context) Tick() error {
	if err := ctx.executeEvents(); err != nil {
		log.Errorf("%v", err)
		ctx.notify(Error{Time: ctx.clock.T, Err: err, Message: err.Error()})
		return err
	}
	ctx.update()
	ctx.clock.Step()
	if *heartBeatInterval > 0 && ctx.clock.T%int32(*heartBeatInterval) == 0 {
		log.Infof("STEP: %d, pending events: %d", ctx.clock.T, ctx.events.Len())
	}
	snapshot := ctx.Snapshot()
	ctx.notify(Advanced{Time: ctx.clock.T, Snapshot: snapshot})
	for _, s := range ctx.sinks {
		if err := s.Write(snapshot); err != nil {
			return fmt.Errorf("write report at tick %d: %w", ctx.clock.T, err)
		}
	}
	return nil
}

// Execute 从当前时刻开始连续执行steps个tick
// 返回：第一个失败tick的错误，之后的tick不再执行
func (ctx *Context) Execute(steps int) error {
	for iter := 0; iter < steps; iter++ {
		if err := ctx.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Reset 清空全部实体与事件，时钟回到0，并通知观察者
func (ctx *Context) Reset() {
	ctx.events.Clear()
	ctx.vehicleManager.Clear()
	ctx.roadManager.Clear()
	ctx.junctionManager.Clear()
	ctx.clock.Init()
	log.Infof("simulation reset")
	ctx.notify(Reset{Time: ctx.clock.T})
}

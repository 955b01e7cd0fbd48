package task

import (
	"context"
	"sync/atomic"
	"time"
)

// Stepper 交互式逐步执行器
// 功能：持有Context的唯一执行权，在独立goroutine中按间隔连续执行tick，支持协作式停止
// 说明：执行权以容量为1的channel传递，任意时刻至多一个调用方在Context内部；
// 停止请求只在两个tick之间生效，不会打断正在执行的tick
type Stepper struct {
	token chan *Context // 执行权

	interactive bool          // 失败后重置模拟
	stopCh      chan struct{} // 停止请求
	stepsLeft   atomic.Int64  // 本次运行剩余步数

	// 运行开始前与结束后（含停止、失败）执行的回调，持有执行权
	Before func(ctx *Context)
	After  func(ctx *Context)
}

// NewStepper 创建逐步执行器
// 参数：ctx-仿真任务上下文，interactive-tick失败后是否重置模拟并继续可用
// 返回：执行器实例
func NewStepper(ctx *Context, interactive bool) *Stepper {
	s := &Stepper{
		token:       make(chan *Context, 1),
		interactive: interactive,
		stopCh:      make(chan struct{}, 1),
	}
	s.token <- ctx
	return s
}

// Do 取得执行权后执行f，结束后归还
func (s *Stepper) Do(f func(ctx *Context) error) error {
	ctx := <-s.token
	defer func() { s.token <- ctx }()
	return f(ctx)
}

// Stop 请求停止当前运行，在下一个tick开始前生效
func (s *Stepper) Stop() {
	select {
	case s.stopCh <- struct{}{}:
	default:
	}
}

// StepsLeft 当前运行剩余的步数
func (s *Stepper) StepsLeft() int {
	return int(s.stepsLeft.Load())
}

// Run 连续执行steps个tick，两个tick之间等待delay
// 参数：c-取消上下文，steps-步数，delay-tick间隔
// 返回：tick失败时返回其错误，被取消时返回c.Err()，被Stop停止时返回nil
// 算法说明：
// 1. 清除之前残留的停止请求，执行Before回调
// 2. 每个tick开始前检查停止请求与取消
// 3. tick失败时，交互模式下重置模拟，然后结束运行
// 4. 结束时执行After回调
func (s *Stepper) Run(c context.Context, steps int, delay time.Duration) (err error) {
	select {
	case <-s.stopCh:
	default:
	}
	s.stepsLeft.Store(int64(steps))
	defer s.stepsLeft.Store(0)
	if s.Before != nil {
		s.Do(func(ctx *Context) error { s.Before(ctx); return nil })
	}
	if s.After != nil {
		defer s.Do(func(ctx *Context) error { s.After(ctx); return nil })
	}
	for i := 0; i < steps; i++ {
		select {
		case <-s.stopCh:
			log.Infof("stepper stopped with %d steps left", s.StepsLeft())
			return nil
		case <-c.Done():
			return c.Err()
		default:
		}
		err = s.Do(func(ctx *Context) error { return ctx.Tick() })
		s.stepsLeft.Add(-1)
		if err != nil {
			if s.interactive {
				s.Do(func(ctx *Context) error { ctx.Reset(); return nil })
			}
			return err
		}
		if delay > 0 && i < steps-1 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-s.stopCh:
				timer.Stop()
				log.Infof("stepper stopped with %d steps left", s.StepsLeft())
				return nil
			case <-c.Done():
				timer.Stop()
				return c.Err()
			}
		}
	}
	return nil
}

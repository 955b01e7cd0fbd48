package task

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
)

// Notification 引擎发给观察者的通知
// 通知类型是封闭集合：Registered、NewEvent、Advanced、Reset、Error
type Notification interface {
	isNotification()
}

// Registered 观察者注册成功，只发给新注册的观察者
type Registered struct {
	Time   int32
	Events []event.Event // 当前待执行事件
}

// NewEvent 加入了新事件
type NewEvent struct {
	Time   int32
	Event  event.Event
	Events []event.Event // 加入后的待执行事件
}

// Advanced 成功推进一个tick
type Advanced struct {
	Time     int32
	Snapshot *entity.Snapshot
}

// Reset 模拟被重置
type Reset struct {
	Time int32
}

// Error tick执行失败，时钟未推进
type Error struct {
	Time    int32
	Err     error
	Message string
}

func (Registered) isNotification() {}
func (NewEvent) isNotification()   {}
func (Advanced) isNotification()   {}
func (Reset) isNotification()      {}
func (Error) isNotification()      {}

// Listener 观察者
// 通知在执行tick的goroutine上同步发出，回调中不能修改引擎状态
type Listener interface {
	Notify(n Notification)
}

// ListenerFunc 函数形式的观察者
type ListenerFunc func(n Notification)

func (f ListenerFunc) Notify(n Notification) {
	f(n)
}

// Sink 报告输出，每个成功的tick写入一次全部实体的报告
type Sink interface {
	Write(snapshot *entity.Snapshot) error
}

// AddListener 注册观察者，并只向该观察者发送Registered通知
// 返回：注销该观察者的函数
func (ctx *Context) AddListener(l Listener) (remove func()) {
	id := ctx.nextListener
	ctx.nextListener++
	ctx.listeners = append(ctx.listeners, registration{id: id, listener: l})
	l.Notify(Registered{Time: ctx.clock.T, Events: ctx.events.Events()})
	return func() {
		ctx.listeners = lo.Reject(ctx.listeners, func(r registration, _ int) bool { return r.id == id })
	}
}

type registration struct {
	id       int
	listener Listener
}

func (ctx *Context) notify(n Notification) {
	for _, r := range ctx.listeners {
		r.listener.Notify(n)
	}
}

package event

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/container"
)

var (
	// 事件执行时刻早于当前时刻
	ErrPastEvent = errors.New("event time is before current time")
)

// Queue 按执行时刻组织的事件队列
// 功能：同一时刻的事件按加入顺序保存，到达该时刻时一次全部取出
// 说明：时刻小顶堆只用于定位最早的待执行时刻，已取出的时刻惰性删除
type Queue struct {
	times   *container.PriorityQueue[int32] // 有事件的时刻
	buckets map[int32][]Event               // 时刻->该时刻的事件，按加入顺序
	size    int
}

// NewQueue 创建空事件队列
func NewQueue() *Queue {
	return &Queue{
		times:   container.NewPriorityQueue[int32](),
		buckets: make(map[int32][]Event),
	}
}

// Push 加入事件
// 参数：e-事件，now-当前时刻
// 返回：事件时刻早于当前时刻时返回ErrPastEvent，队列不变
func (q *Queue) Push(e Event, now int32) error {
	if e.Time() < now {
		return fmt.Errorf("%s at %d, current time %d: %w", e.Description(), e.Time(), now, ErrPastEvent)
	}
	bucket, ok := q.buckets[e.Time()]
	if !ok {
		q.times.HeapPush(e.Time(), float64(e.Time()))
	}
	q.buckets[e.Time()] = append(bucket, e)
	q.size++
	log.Debugf("push event `%s` at %d", e.Description(), e.Time())
	return nil
}

// PopDue 取出并删除时刻恰好为now的全部事件，按加入顺序返回
func (q *Queue) PopDue(now int32) []Event {
	events, ok := q.buckets[now]
	if !ok {
		return nil
	}
	delete(q.buckets, now)
	q.size -= len(events)
	for q.times.Len() > 0 {
		if _, ok := q.buckets[q.times.First()]; ok {
			break
		}
		q.times.HeapPop()
	}
	return events
}

// NextTime 最早的待执行时刻
func (q *Queue) NextTime() (int32, bool) {
	if q.times.Len() == 0 {
		return 0, false
	}
	return q.times.First(), true
}

// Len 待执行事件数
func (q *Queue) Len() int {
	return q.size
}

// Events 按时刻、同一时刻按加入顺序列出全部待执行事件
func (q *Queue) Events() []Event {
	times := lo.Keys(q.buckets)
	slices.Sort(times)
	events := make([]Event, 0, q.size)
	for _, t := range times {
		events = append(events, q.buckets[t]...)
	}
	return events
}

// Clear 清空队列
func (q *Queue) Clear() {
	q.times = container.NewPriorityQueue[int32]()
	q.buckets = make(map[int32][]Event)
	q.size = 0
}

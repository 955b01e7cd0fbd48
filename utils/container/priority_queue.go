package container

import "container/heap"

// entry 堆中的元素，seq为入队序号，用于优先级相同时保持先进先出
type entry[T any] struct {
	value    T
	priority float64
	seq      uint64
}

// entries 小顶堆，实现heap.Interface
type entries[T any] []entry[T]

func (h entries[T]) Len() int { return len(h) }

func (h entries[T]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entries[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entries[T]) Push(x any) { *h = append(*h, x.(entry[T])) }

func (h *entries[T]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry[T]{}
	*h = old[:n-1]
	return e
}

// PriorityQueue 优先队列
// 功能：按优先级从小到大弹出元素，优先级相同时按入队顺序弹出
// 说明：非线程安全
type PriorityQueue[T any] struct {
	heap entries[T]
	next uint64 // 下一个入队序号
}

// NewPriorityQueue 创建空的优先队列
func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

// Len 队列中的元素个数
func (q *PriorityQueue[T]) Len() int {
	return len(q.heap)
}

// First 查看优先级数值最小的元素，不出队
// 说明：队列为空时panic
func (q *PriorityQueue[T]) First() T {
	return q.heap[0].value
}

func (q *PriorityQueue[T]) entry(value T, priority float64) entry[T] {
	e := entry[T]{value: value, priority: priority, seq: q.next}
	q.next++
	return e
}

// Push 批量加入元素，不维护堆结构
// 说明：全部加入后需调用Heapify，适合一次性建堆的场景
func (q *PriorityQueue[T]) Push(value T, priority float64) {
	q.heap = append(q.heap, q.entry(value, priority))
}

// Heapify 以O(n)重建堆结构
func (q *PriorityQueue[T]) Heapify() {
	heap.Init(&q.heap)
}

// HeapPush 加入元素并维护堆结构
func (q *PriorityQueue[T]) HeapPush(value T, priority float64) {
	heap.Push(&q.heap, q.entry(value, priority))
}

// HeapPop 弹出优先级数值最小的元素
// 返回：元素值，元素优先级
// 说明：队列为空时panic
func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	e := heap.Pop(&q.heap).(entry[T])
	return e.value, e.priority
}

package container

import (
	"fmt"
)

// ListNode 双向链表节点，S为排序键（等待队列中为到达时间）
type ListNode[T any] struct {
	parent     *List[T]
	prev, next *ListNode[T]
	S          float64
	Value      T
}

// NewListNode 创建不属于任何链表的节点
func NewListNode[T any](s float64, value T) *ListNode[T] {
	return &ListNode[T]{S: s, Value: value}
}

func (n *ListNode[T]) String() string {
	return fmt.Sprintf("Node{Key:%v, Value:%+v}", n.S, n.Value)
}

// Prev 前驱节点，n为头节点时返回nil
func (n *ListNode[T]) Prev() *ListNode[T] {
	return n.prev
}

// Next 后继节点，n为尾节点时返回nil
func (n *ListNode[T]) Next() *ListNode[T] {
	return n.next
}

// Parent 节点所在的链表，已移除的节点返回nil
func (n *ListNode[T]) Parent() *List[T] {
	return n.parent
}

// InsertBefore 在n之前插入add
// 说明：add已在某个链表中时panic
func (n *ListNode[T]) InsertBefore(add *ListNode[T]) {
	n.parent.link(add, n.prev, n)
}

// InsertAfter 在n之后插入add
// 说明：add已在某个链表中时panic
func (n *ListNode[T]) InsertAfter(add *ListNode[T]) {
	n.parent.link(add, n, n.next)
}

// List 双向链表
// 功能：道路等待队列的存储结构，从头部出队，从尾部入队
// 说明：零值即为可用的空链表，非线程安全
type List[T any] struct {
	ID         string
	head, tail *ListNode[T]
	length     int
}

func (l *List[T]) String() string {
	return fmt.Sprintf("List{ID:%v}", l.ID)
}

// link 把add接在prev与next之间，prev或next为nil表示链表的头或尾
func (l *List[T]) link(add, prev, next *ListNode[T]) {
	if add.parent != nil {
		panic(fmt.Sprintf("container: node %v already in list %v", add, add.parent))
	}
	add.parent = l
	add.prev, add.next = prev, next
	if prev != nil {
		prev.next = add
	} else {
		l.head = add
	}
	if next != nil {
		next.prev = add
	} else {
		l.tail = add
	}
	l.length++
}

// Keys 从头到尾的节点键值
func (l *List[T]) Keys() []float64 {
	keys := make([]float64, 0, l.length)
	for node := l.head; node != nil; node = node.next {
		keys = append(keys, node.S)
	}
	return keys
}

// Values 从头到尾的节点值
func (l *List[T]) Values() []T {
	values := make([]T, 0, l.length)
	for node := l.head; node != nil; node = node.next {
		values = append(values, node.Value)
	}
	return values
}

// Len 节点个数
func (l *List[T]) Len() int {
	return l.length
}

// PushFront 插入到头部，用于放回未能出队的节点
func (l *List[T]) PushFront(add *ListNode[T]) {
	l.link(add, nil, l.head)
}

// PushBack 插入到尾部
func (l *List[T]) PushBack(add *ListNode[T]) {
	l.link(add, l.tail, nil)
}

// Remove 移除节点，移除后节点可以再次插入
// 说明：node不属于l时panic
func (l *List[T]) Remove(node *ListNode[T]) {
	if node.parent != l {
		panic(fmt.Sprintf("container: node %v not in list %v", node, l))
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev, node.next, node.parent = nil, nil, nil
	l.length--
}

// PopFront 移除并返回头节点，链表为空时返回nil
func (l *List[T]) PopFront() *ListNode[T] {
	node := l.head
	if node != nil {
		l.Remove(node)
	}
	return node
}

// Clear 清空链表
func (l *List[T]) Clear() {
	for l.head != nil {
		l.Remove(l.head)
	}
}

// First 头节点，链表为空时返回nil
func (l *List[T]) First() *ListNode[T] {
	return l.head
}

// Last 尾节点，链表为空时返回nil
func (l *List[T]) Last() *ListNode[T] {
	return l.tail
}

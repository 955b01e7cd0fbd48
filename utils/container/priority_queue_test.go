package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/container"
)

func TestPriorityQueueOrder(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.HeapPush("c", 3)
	q.HeapPush("a", 1)
	q.HeapPush("b", 2)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "a", q.First())

	v, p := q.HeapPop()
	assert.Equal(t, "a", v)
	assert.Equal(t, 1.0, p)
	v, _ = q.HeapPop()
	assert.Equal(t, "b", v)
	v, _ = q.HeapPop()
	assert.Equal(t, "c", v)
	assert.Equal(t, 0, q.Len())
}

func TestPriorityQueueHeapify(t *testing.T) {
	q := container.NewPriorityQueue[int]()
	for _, x := range []int{5, 1, 4, 2, 3} {
		q.Push(x, float64(x))
	}
	q.Heapify()
	for want := 1; want <= 5; want++ {
		v, _ := q.HeapPop()
		assert.Equal(t, want, v)
	}
}

func TestPriorityQueueEqualPrioritiesKeepPushOrder(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	for _, v := range []string{"x", "y", "z"} {
		q.HeapPush(v, 1)
	}
	q.HeapPush("w", 0)
	for _, want := range []string{"w", "x", "y", "z"} {
		v, _ := q.HeapPop()
		assert.Equal(t, want, v)
	}
}

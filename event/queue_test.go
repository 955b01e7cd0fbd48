package event_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
)

func junctionAt(time int32, id string) event.Event {
	return event.NewJunctionEvent(time, entity.JunctionAttr{ID: id})
}

func descriptions(events []event.Event) []string {
	return lo.Map(events, func(e event.Event, _ int) string { return e.Description() })
}

func TestQueueOrder(t *testing.T) {
	q := event.NewQueue()
	for _, e := range []event.Event{
		junctionAt(3, "a"),
		junctionAt(1, "b"),
		junctionAt(3, "c"),
		junctionAt(0, "d"),
		junctionAt(1, "e"),
	} {
		require.NoError(t, q.Push(e, 0))
	}
	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []string{
		"New junction d", "New junction b", "New junction e", "New junction a", "New junction c",
	}, descriptions(q.Events()))

	next, ok := q.NextTime()
	require.True(t, ok)
	assert.Equal(t, int32(0), next)

	assert.Equal(t, []string{"New junction d"}, descriptions(q.PopDue(0)))
	assert.Empty(t, q.PopDue(2))
	assert.Equal(t, []string{"New junction b", "New junction e"}, descriptions(q.PopDue(1)))
	next, _ = q.NextTime()
	assert.Equal(t, int32(3), next)
	assert.Equal(t, []string{"New junction a", "New junction c"}, descriptions(q.PopDue(3)))

	assert.Equal(t, 0, q.Len())
	_, ok = q.NextTime()
	assert.False(t, ok)
}

func TestQueueRejectsPastEvents(t *testing.T) {
	q := event.NewQueue()
	err := q.Push(junctionAt(4, "a"), 5)
	assert.ErrorIs(t, err, event.ErrPastEvent)
	assert.Equal(t, 0, q.Len())
	assert.NoError(t, q.Push(junctionAt(5, "a"), 5))
}

func TestQueueClear(t *testing.T) {
	q := event.NewQueue()
	require.NoError(t, q.Push(junctionAt(1, "a"), 0))
	require.NoError(t, q.Push(junctionAt(2, "b"), 0))
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Events())
	assert.Empty(t, q.PopDue(1))
}

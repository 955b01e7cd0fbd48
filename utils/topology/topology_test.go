package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"github.com/tsinghua-fib-lab/trafficsim-oss/task"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/topology"
)

func networkEvents() []event.Event {
	return []event.Event{
		event.NewJunctionEvent(0, entity.JunctionAttr{ID: "j1"}),
		event.NewJunctionEvent(0, entity.JunctionAttr{ID: "j2", Kind: entity.JunctionMostCrowded}),
		event.NewJunctionEvent(0, entity.JunctionAttr{ID: "j3"}),
		event.NewJunctionEvent(0, entity.JunctionAttr{ID: "j4"}),
		event.NewRoadEvent(0, entity.RoadAttr{ID: "r1", From: "j1", To: "j2", Length: 10, SpeedLimit: 5}),
		event.NewRoadEvent(0, entity.RoadAttr{ID: "r2", Kind: entity.RoadDirt, From: "j2", To: "j3", Length: 20, SpeedLimit: 5}),
		event.NewRoadEvent(0, entity.RoadAttr{ID: "r3", From: "j1", To: "j2", Length: 30, SpeedLimit: 5}),
		event.NewRoadEvent(0, entity.RoadAttr{ID: "r9", From: "j1", To: "j9", Length: 30, SpeedLimit: 5}),
	}
}

func TestFromEvents(t *testing.T) {
	g := topology.FromEvents(networkEvents())
	assert.Equal(t, 4, g.NumJunctions())

	road, ok := g.Road("j1", "j2")
	require.True(t, ok)
	assert.Equal(t, "r1", road)
	_, ok = g.Road("j2", "j1")
	assert.False(t, ok)

	assert.True(t, g.Reachable("j1", "j3"))
	assert.False(t, g.Reachable("j3", "j1"))
	assert.False(t, g.Reachable("j1", "j4"))
	assert.False(t, g.Reachable("j1", "j9"))

	assert.Empty(t, g.MissingHops([]string{"j1", "j2", "j3"}))
	assert.Equal(t, []int{0, 1}, g.MissingHops([]string{"j1", "j3", "j2"}))
}

func TestBuildFromContext(t *testing.T) {
	ctx := task.NewContext()
	for _, e := range networkEvents()[:7] {
		require.NoError(t, ctx.PushEvent(e))
	}
	require.NoError(t, ctx.Tick())

	g := topology.Build(ctx)
	assert.Equal(t, 4, g.NumJunctions())
	assert.True(t, g.Reachable("j1", "j3"))

	out, err := g.DOT()
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "digraph network")
	assert.Contains(t, text, "j1 -> j2")
	assert.Contains(t, text, `label="r2[dirt](20)"`)
	assert.Contains(t, text, "mc")
}

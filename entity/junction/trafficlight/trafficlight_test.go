package trafficlight_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/trafficsim-oss/task"
)

// crowdedRoads 创建以j0为终点的道路r1..rn，第i条道路等待队列中有waiting[i]辆车
func crowdedRoads(t *testing.T, waiting ...int) []entity.IRoad {
	t.Helper()
	ctx := task.NewContext()
	_, err := ctx.JunctionManager().New(entity.JunctionAttr{ID: "j0"})
	require.NoError(t, err)
	n := 0
	for i, w := range waiting {
		src := fmt.Sprintf("j%d", i+1)
		_, err := ctx.JunctionManager().New(entity.JunctionAttr{ID: src})
		require.NoError(t, err)
		_, err = ctx.RoadManager().New(entity.RoadAttr{
			ID: fmt.Sprintf("r%d", i+1), From: src, To: "j0", Length: 1, SpeedLimit: 10,
		})
		require.NoError(t, err)
		for iter := 0; iter < w; iter++ {
			n++
			_, err := ctx.VehicleManager().New(entity.VehicleAttr{
				ID: fmt.Sprintf("v%d", n), MaxSpeed: 10, Itinerary: []string{src, "j0"},
			})
			require.NoError(t, err)
		}
	}
	ctx.RoadManager().Update()
	roads := ctx.JunctionManager().Get("j0").IncomingRoads()
	for i, w := range waiting {
		require.Equal(t, w, roads[i].NumWaiting())
	}
	return roads
}

func TestFixedTrafficLight(t *testing.T) {
	roads := crowdedRoads(t, 0, 2, 0)
	l := trafficlight.NewFixedTrafficLight("j0")
	cur := l.First(roads)
	assert.Equal(t, 0, cur)
	for _, want := range []int{1, 2, 0, 1} {
		next, switched := l.Next(cur, roads)
		assert.True(t, switched)
		assert.Equal(t, want, next)
		cur = next
	}
	_, ok := l.Remaining("r1")
	assert.False(t, ok)
}

// greenPeriod 以固定的通行情况跑完一个绿灯周期，返回切换后的下标
func greenPeriod(t *testing.T, l interface {
	Observe(bool)
	Next(int, []entity.IRoad) (int, bool)
}, cur int, roads []entity.IRoad, crossed func(tick int) bool) int {
	t.Helper()
	for tick := 0; ; tick++ {
		require.Less(t, tick, 100)
		l.Observe(crossed(tick))
		if next, switched := l.Next(cur, roads); switched {
			return next
		}
	}
}

func TestAdaptiveTrafficLightShrinksToMin(t *testing.T) {
	roads := crowdedRoads(t, 0, 0)
	l := trafficlight.NewAdaptiveTrafficLight("j0", 1, 3)
	for _, r := range roads {
		l.AddRoad(r.ID())
	}
	never := func(int) bool { return false }

	cur := l.First(roads)
	require.Equal(t, 0, cur)
	remaining, ok := l.Remaining("r1")
	require.True(t, ok)
	assert.Equal(t, 3, remaining)

	// 3个tick后切换，无车通过，时长减为2
	for iter := 0; iter < 2; iter++ {
		l.Observe(false)
		_, switched := l.Next(cur, roads)
		assert.False(t, switched)
	}
	remaining, _ = l.Remaining("r1")
	assert.Equal(t, 1, remaining)
	l.Observe(false)
	next, switched := l.Next(cur, roads)
	assert.True(t, switched)
	assert.Equal(t, 1, next)
	lapse, err := l.TimeLapse("r1")
	require.NoError(t, err)
	assert.Equal(t, 2, lapse)

	cur = greenPeriod(t, l, next, roads, never)
	assert.Equal(t, 0, cur)
	for iter := 0; iter < 4; iter++ {
		cur = greenPeriod(t, l, cur, roads, never)
	}
	assert.Equal(t, 0, cur)
	lapse, _ = l.TimeLapse("r1")
	assert.Equal(t, 1, lapse)
	lapse, _ = l.TimeLapse("r2")
	assert.Equal(t, 1, lapse)

	_, err = l.TimeLapse("r9")
	assert.ErrorIs(t, err, entity.ErrNotExist)
}

func TestAdaptiveTrafficLightGrowsToMax(t *testing.T) {
	roads := crowdedRoads(t, 0)
	l := trafficlight.NewAdaptiveTrafficLight("j0", 1, 3)
	l.AddRoad(roads[0].ID())
	never := func(int) bool { return false }
	always := func(int) bool { return true }

	cur := l.First(roads)
	cur = greenPeriod(t, l, cur, roads, never)
	cur = greenPeriod(t, l, cur, roads, never)
	lapse, _ := l.TimeLapse("r1")
	require.Equal(t, 1, lapse)

	cur = greenPeriod(t, l, cur, roads, always)
	lapse, _ = l.TimeLapse("r1")
	assert.Equal(t, 2, lapse)

	// 有车通过但并非每个tick都有，时长不变
	cur = greenPeriod(t, l, cur, roads, func(tick int) bool { return tick == 0 })
	lapse, _ = l.TimeLapse("r1")
	assert.Equal(t, 2, lapse)

	cur = greenPeriod(t, l, cur, roads, always)
	cur = greenPeriod(t, l, cur, roads, always)
	greenPeriod(t, l, cur, roads, always)
	lapse, _ = l.TimeLapse("r1")
	assert.Equal(t, 3, lapse)
}

func TestMostCrowdedTrafficLight(t *testing.T) {
	roads := crowdedRoads(t, 1, 3, 3)
	l := trafficlight.NewMostCrowdedTrafficLight("j0")
	for _, r := range roads {
		l.AddRoad(r.ID())
	}
	_, ok := l.Remaining("r9")
	assert.False(t, ok)

	// 并列时取注册顺序最靠前的
	cur := l.First(roads)
	assert.Equal(t, 1, cur)
	remaining, ok := l.Remaining("r2")
	require.True(t, ok)
	assert.Equal(t, 1, remaining)

	// 并列时取当前道路之后最近的
	next, switched := l.Next(cur, roads)
	assert.True(t, switched)
	assert.Equal(t, 2, next)
}

func TestMostCrowdedTrafficLightKeepsGreenForHalfTheQueue(t *testing.T) {
	roads := crowdedRoads(t, 0, 4)
	l := trafficlight.NewMostCrowdedTrafficLight("j0")
	for _, r := range roads {
		l.AddRoad(r.ID())
	}
	cur := l.First(roads)
	require.Equal(t, 1, cur)
	remaining, _ := l.Remaining("r2")
	assert.Equal(t, 2, remaining)

	_, switched := l.Next(cur, roads)
	assert.False(t, switched)
	// 仍是最拥挤的道路，可以再次被选中
	next, switched := l.Next(cur, roads)
	assert.True(t, switched)
	assert.Equal(t, 1, next)
}

func TestMostCrowdedTrafficLightEmptyQueues(t *testing.T) {
	roads := crowdedRoads(t, 0, 0, 0)
	l := trafficlight.NewMostCrowdedTrafficLight("j0")
	for _, r := range roads {
		l.AddRoad(r.ID())
	}
	cur := l.First(roads)
	assert.Equal(t, 0, cur)
	for _, want := range []int{1, 2, 0} {
		next, switched := l.Next(cur, roads)
		require.True(t, switched)
		assert.Equal(t, want, next)
		cur = next
	}
}

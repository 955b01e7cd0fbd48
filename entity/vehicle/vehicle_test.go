package vehicle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/task"
)

// newNetwork 创建路口j1,j2,j3与道路，roads的每一项为[ID, 起点, 终点]
func newNetwork(t *testing.T, length, speedLimit int, roads ...[3]string) *task.Context {
	t.Helper()
	ctx := task.NewContext()
	for _, id := range []string{"j1", "j2", "j3"} {
		_, err := ctx.JunctionManager().New(entity.JunctionAttr{ID: id})
		require.NoError(t, err)
	}
	for _, r := range roads {
		_, err := ctx.RoadManager().New(entity.RoadAttr{
			ID: r[0], From: r[1], To: r[2], Length: length, SpeedLimit: speedLimit,
		})
		require.NoError(t, err)
	}
	return ctx
}

func TestNewVehicle(t *testing.T) {
	ctx := newNetwork(t, 100, 10, [3]string{"r1", "j1", "j2"})
	vm := ctx.VehicleManager()

	v, err := vm.New(entity.VehicleAttr{ID: "v1", MaxSpeed: 5, Itinerary: []string{"j1", "j2"}})
	require.NoError(t, err)
	assert.Equal(t, "r1", v.Road().ID())
	assert.Equal(t, 0, v.Location())
	assert.Equal(t, []string{"v1"}, []string{v.Road().Vehicles()[0].ID()})

	_, err = vm.New(entity.VehicleAttr{ID: "v1", MaxSpeed: 5, Itinerary: []string{"j1", "j2"}})
	assert.ErrorIs(t, err, entity.ErrAlreadyExists)
	_, err = vm.New(entity.VehicleAttr{ID: "v2", MaxSpeed: 5, Itinerary: []string{"j1", "j9"}})
	assert.ErrorIs(t, err, entity.ErrNotExist)
	_, err = vm.New(entity.VehicleAttr{ID: "v3", MaxSpeed: 5, Itinerary: []string{"j1", "j3"}})
	assert.ErrorIs(t, err, entity.ErrNotExist)
	_, err = vm.New(entity.VehicleAttr{ID: "v4", MaxSpeed: 5, Itinerary: []string{"j1"}})
	assert.Error(t, err)

	assert.Len(t, vm.Vehicles(), 1)
	_, err = vm.GetOrError("v3")
	assert.ErrorIs(t, err, entity.ErrNotExist)
}

func TestVehicleTrip(t *testing.T) {
	ctx := newNetwork(t, 20, 10, [3]string{"r1", "j1", "j2"}, [3]string{"r2", "j2", "j3"})
	v, err := ctx.VehicleManager().New(entity.VehicleAttr{ID: "v1", MaxSpeed: 15, Itinerary: []string{"j1", "j2", "j3"}})
	require.NoError(t, err)
	r1 := ctx.RoadManager().Get("r1")

	r1.Proceed()
	assert.Equal(t, 10, v.Speed())
	assert.Equal(t, 10, v.Location())
	r1.Proceed()
	assert.Equal(t, 20, v.Location())
	assert.Equal(t, 20, v.Kilometrage())
	assert.Equal(t, 0, v.Speed())
	require.Equal(t, 1, r1.NumWaiting())

	r1.SetLight(true)
	ok, err := r1.MoveWaitingVehicle()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "r2", v.Road().ID())
	assert.Equal(t, 0, v.Location())
	assert.Equal(t, 20, v.Kilometrage())
	assert.False(t, v.Arrived())

	report := v.Snapshot(3)
	assert.Equal(t, "(r2,0)", report.LocationString())
	assert.Equal(t, "[j1,j2,j3]", report.ItineraryString())
	assert.Empty(t, report.Type)
}

func TestCrossingWithoutRoadKeepsVehicleWaiting(t *testing.T) {
	ctx := newNetwork(t, 10, 10, [3]string{"r1", "j1", "j2"})
	v, err := ctx.VehicleManager().New(entity.VehicleAttr{ID: "v1", MaxSpeed: 10, Itinerary: []string{"j1", "j2", "j3"}})
	require.NoError(t, err)
	r1 := ctx.RoadManager().Get("r1")
	r1.Proceed()
	r1.SetLight(true)

	ok, err := r1.MoveWaitingVehicle()
	assert.ErrorIs(t, err, entity.ErrNotExist)
	assert.False(t, ok)
	assert.Equal(t, 1, r1.NumWaiting())
	assert.Equal(t, "r1", v.Road().ID())

	_, err = ctx.RoadManager().New(entity.RoadAttr{ID: "r2", From: "j2", To: "j3", Length: 10, SpeedLimit: 10})
	require.NoError(t, err)
	ok, err = r1.MoveWaitingVehicle()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "r2", v.Road().ID())
	assert.Equal(t, 0, r1.NumWaiting())
}

func TestBasicBreakdownAccumulates(t *testing.T) {
	ctx := newNetwork(t, 100, 10, [3]string{"r1", "j1", "j2"})
	v, err := ctx.VehicleManager().New(entity.VehicleAttr{ID: "v1", MaxSpeed: 10, Itinerary: []string{"j1", "j2"}})
	require.NoError(t, err)
	v.AddBreakdownTime(2)
	v.AddBreakdownTime(3)
	assert.Equal(t, 5, v.BreakdownTime())

	r1 := ctx.RoadManager().Get("r1")
	r1.Proceed()
	assert.Equal(t, 4, v.BreakdownTime())
	assert.Equal(t, 0, v.Location())
	assert.Equal(t, 0, v.Speed())
	assert.Equal(t, 4, v.Snapshot(1).Faulty)
}

func TestBikeIgnoresFaultWhenSlow(t *testing.T) {
	ctx := newNetwork(t, 100, 5, [3]string{"slow", "j1", "j2"}, [3]string{"fast", "j2", "j3"})
	bike, err := ctx.VehicleManager().New(entity.VehicleAttr{
		ID: "b1", Kind: entity.VehicleBike, MaxSpeed: 10, Itinerary: []string{"j1", "j2"},
	})
	require.NoError(t, err)

	bike.AddBreakdownTime(3)
	assert.Equal(t, 0, bike.BreakdownTime(), "standing bike")

	ctx.RoadManager().Get("slow").Proceed()
	require.Equal(t, 5, bike.Speed())
	bike.AddBreakdownTime(3)
	assert.Equal(t, 0, bike.BreakdownTime(), "speed equal to half of max speed")

	bike.SetSpeed(6)
	bike.AddBreakdownTime(3)
	assert.Equal(t, 3, bike.BreakdownTime())
	assert.Equal(t, "bike", bike.Snapshot(0).Type)
}

func carAttr(id string, probability float64, maxDuration int, seed int64) entity.VehicleAttr {
	return entity.VehicleAttr{
		ID:               id,
		Kind:             entity.VehicleCar,
		MaxSpeed:         10,
		Itinerary:        []string{"j1", "j2"},
		Resistance:       5,
		FaultProbability: probability,
		MaxFaultDuration: maxDuration,
		Seed:             seed,
	}
}

func TestCarFaultsAfterResistance(t *testing.T) {
	ctx := newNetwork(t, 1000, 10, [3]string{"r1", "j1", "j2"})
	car, err := ctx.VehicleManager().New(carAttr("c1", 1, 1, 42))
	require.NoError(t, err)
	r1 := ctx.RoadManager().Get("r1")

	locations := make([]int, 0, 4)
	for iter := 0; iter < 4; iter++ {
		r1.Proceed()
		locations = append(locations, car.Location())
	}
	// 行驶超过resistance后必然故障一个tick，故障的tick内即恢复，随后重新累计距离
	assert.Equal(t, []int{10, 10, 20, 20}, locations)
	assert.Equal(t, "car", car.Snapshot(0).Type)
}

func TestCarWithoutFaultProbability(t *testing.T) {
	ctx := newNetwork(t, 1000, 10, [3]string{"r1", "j1", "j2"})
	car, err := ctx.VehicleManager().New(carAttr("c1", 0, 3, 42))
	require.NoError(t, err)
	r1 := ctx.RoadManager().Get("r1")
	for iter := 0; iter < 5; iter++ {
		r1.Proceed()
	}
	assert.Equal(t, 50, car.Kilometrage())
}

func TestCarSeedIsReproducible(t *testing.T) {
	run := func() []int {
		ctx := newNetwork(t, 10000, 10, [3]string{"r1", "j1", "j2"})
		car, err := ctx.VehicleManager().New(carAttr("c1", 0.5, 3, 7))
		require.NoError(t, err)
		r1 := ctx.RoadManager().Get("r1")
		km := make([]int, 0, 50)
		for iter := 0; iter < 50; iter++ {
			r1.Proceed()
			km = append(km, car.Kilometrage())
		}
		return km
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Less(t, first[len(first)-1], 500)
}

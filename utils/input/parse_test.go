package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"github.com/tsinghua-fib-lab/trafficsim-oss/utils/input"
)

const scenario = `
events:
  - type: new_junction
    id: j1
  - type: new_junction
    kind: rr
    id: j2
    min_time_slice: 1
    max_time_slice: 3
  - type: new_junction
    kind: mc
    id: j3
  - type: new_road
    id: r1
    src: j1
    dest: j2
    length: 100
    max_speed: 50
  - type: new_road
    kind: lanes
    id: r2
    src: j2
    dest: j3
    length: 200
    max_speed: 80
    lanes: 3
  - type: new_road
    kind: dirt
    id: r3
    src: j3
    dest: j1
    length: 60
    max_speed: 20
  - type: new_vehicle
    time: 1
    id: v1
    max_speed: 40
    itinerary: [j1, j2, j3]
  - type: new_vehicle
    kind: car
    time: 2
    id: v2
    max_speed: 60
    itinerary: [j2, j3]
    resistance: 30
    fault_probability: 0.5
    max_fault_duration: 4
    seed: 7
  - type: new_vehicle
    kind: bike
    id: v3
    max_speed: 10
    itinerary: [j3, j1]
  - type: make_vehicle_faulty
    time: 4
    vehicles: [v1, v3]
    duration: 2
`

func TestParseScenario(t *testing.T) {
	events, err := input.Parse([]byte(scenario))
	require.NoError(t, err)
	require.Len(t, events, 10)

	assert.True(t, events[1].Equal(event.NewJunctionEvent(0, entity.JunctionAttr{
		ID: "j2", Kind: entity.JunctionRoundRobin, MinTimeSlice: 1, MaxTimeSlice: 3,
	})))
	assert.True(t, events[4].Equal(event.NewRoadEvent(0, entity.RoadAttr{
		ID: "r2", Kind: entity.RoadHighway, Length: 200, SpeedLimit: 80, From: "j2", To: "j3", Lanes: 3,
	})))
	assert.True(t, events[7].Equal(event.NewVehicleEvent(2, entity.VehicleAttr{
		ID: "v2", Kind: entity.VehicleCar, MaxSpeed: 60, Itinerary: []string{"j2", "j3"},
		Resistance: 30, FaultProbability: 0.5, MaxFaultDuration: 4, Seed: 7,
	})))
	assert.Equal(t, "New dirt road r3", events[5].Description())
	assert.Equal(t, "New bike vehicle v3", events[8].Description())
	assert.Equal(t, "Break vehicles [v1,v3] for 2 units of time", events[9].Description())
	assert.Equal(t, int32(4), events[9].Time())
}

func TestParseCarWithoutSeed(t *testing.T) {
	events, err := input.Parse([]byte(`
events:
  - type: new_vehicle
    kind: car
    id: c1
    max_speed: 10
    itinerary: [a, b]
    resistance: 1
    fault_probability: 0
    max_fault_duration: 1
`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	car, ok := events[0].(*event.NewVehicle)
	require.True(t, ok)
	assert.NotZero(t, car.Attr.Seed)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown type":     "events:\n  - type: new_bridge\n    id: b1\n",
		"unknown kind":     "events:\n  - type: new_road\n    kind: gravel\n    id: r1\n",
		"illegal id":       "events:\n  - type: new_junction\n    id: j-1\n",
		"missing id":       "events:\n  - type: new_junction\n",
		"negative time":    "events:\n  - type: new_junction\n    id: j1\n    time: -1\n",
		"zero length":      "events:\n  - type: new_road\n    id: r1\n    src: a\n    dest: b\n    length: 0\n    max_speed: 5\n",
		"missing lanes":    "events:\n  - type: new_road\n    kind: lanes\n    id: r1\n    src: a\n    dest: b\n    length: 5\n    max_speed: 5\n",
		"short itinerary":  "events:\n  - type: new_vehicle\n    id: v1\n    max_speed: 5\n    itinerary: [a]\n",
		"probability":      "events:\n  - type: new_vehicle\n    kind: car\n    id: v1\n    max_speed: 5\n    itinerary: [a, b]\n    resistance: 1\n    fault_probability: 1.5\n    max_fault_duration: 1\n",
		"no vehicles":      "events:\n  - type: make_vehicle_faulty\n    vehicles: []\n    duration: 1\n",
		"zero duration":    "events:\n  - type: make_vehicle_faulty\n    vehicles: [v1]\n    duration: 0\n",
		"unknown field":    "events:\n  - type: new_junction\n    id: j1\n    colour: red\n",
		"malformed number": "events:\n  - type: new_junction\n    id: j1\n    time: soon\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := input.Parse([]byte(data))
			assert.ErrorIs(t, err, input.ErrInvalidEvent)
		})
	}
}

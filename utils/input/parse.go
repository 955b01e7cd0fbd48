package input

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"github.com/tsinghua-fib-lab/trafficsim-oss/event"
	"gopkg.in/yaml.v2"
)

// 场景中的事件不满足构造条件
var ErrInvalidEvent = errors.New("invalid event")

const (
	TypeNewJunction   = "new_junction"
	TypeNewRoad       = "new_road"
	TypeNewVehicle    = "new_vehicle"
	TypeFaultyVehicle = "make_vehicle_faulty"
)

var idPattern = regexp.MustCompile(`^\w+$`)

var (
	junctionKinds = lo.SliceToMap(
		[]entity.JunctionKind{entity.JunctionBasic, entity.JunctionRoundRobin, entity.JunctionMostCrowded},
		func(k entity.JunctionKind) (string, entity.JunctionKind) { return k.Tag(), k },
	)
	roadKinds = lo.SliceToMap(
		[]entity.RoadKind{entity.RoadBasic, entity.RoadHighway, entity.RoadDirt},
		func(k entity.RoadKind) (string, entity.RoadKind) { return k.Tag(), k },
	)
	vehicleKinds = lo.SliceToMap(
		[]entity.VehicleKind{entity.VehicleBasic, entity.VehicleCar, entity.VehicleBike},
		func(k entity.VehicleKind) (string, entity.VehicleKind) { return k.Tag(), k },
	)
)

// 场景文件根结构
type scenario struct {
	Events []rawEvent `yaml:"events"`
}

// 场景中的一条事件记录，缺省字段为nil
type rawEvent struct {
	Type string  `yaml:"type" bson:"type"`
	Kind string  `yaml:"kind,omitempty" bson:"kind,omitempty"`
	Time *int    `yaml:"time,omitempty" bson:"time,omitempty"`
	ID   *string `yaml:"id,omitempty" bson:"id,omitempty"`

	// 道路

	Src      *string `yaml:"src,omitempty" bson:"src,omitempty"`
	Dest     *string `yaml:"dest,omitempty" bson:"dest,omitempty"`
	Length   *int    `yaml:"length,omitempty" bson:"length,omitempty"`
	MaxSpeed *int    `yaml:"max_speed,omitempty" bson:"max_speed,omitempty"`
	Lanes    *int    `yaml:"lanes,omitempty" bson:"lanes,omitempty"`

	// 路口

	MinTimeSlice *int `yaml:"min_time_slice,omitempty" bson:"min_time_slice,omitempty"`
	MaxTimeSlice *int `yaml:"max_time_slice,omitempty" bson:"max_time_slice,omitempty"`

	// 车辆

	Itinerary        []string `yaml:"itinerary,omitempty" bson:"itinerary,omitempty"`
	Resistance       *int     `yaml:"resistance,omitempty" bson:"resistance,omitempty"`
	FaultProbability *float64 `yaml:"fault_probability,omitempty" bson:"fault_probability,omitempty"`
	MaxFaultDuration *int     `yaml:"max_fault_duration,omitempty" bson:"max_fault_duration,omitempty"`
	Seed             *int64   `yaml:"seed,omitempty" bson:"seed,omitempty"`

	// 故障

	Vehicles []string `yaml:"vehicles,omitempty" bson:"vehicles,omitempty"`
	Duration *int     `yaml:"duration,omitempty" bson:"duration,omitempty"`
}

// Parse 解析YAML场景
// 功能：将形如{events: [...]}的YAML文本解析并校验为事件列表
// 参数：data-YAML文本
// 返回：事件列表，错误（校验失败时包装ErrInvalidEvent）
func Parse(data []byte) ([]event.Event, error) {
	var s scenario
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return buildAll(s.Events)
}

func buildAll(raws []rawEvent) ([]event.Event, error) {
	events := make([]event.Event, 0, len(raws))
	for i := range raws {
		e, err := raws[i].build()
		if err != nil {
			return nil, fmt.Errorf("%w: events[%d] (%s): %v", ErrInvalidEvent, i, raws[i].Type, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// build 根据type和kind构造事件
func (r *rawEvent) build() (event.Event, error) {
	c := &checker{}
	t := c.time(r.Time)
	switch r.Type {
	case TypeNewJunction:
		kind, ok := junctionKinds[r.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown junction kind %q", r.Kind)
		}
		attr := entity.JunctionAttr{ID: c.id("id", r.ID), Kind: kind}
		if kind == entity.JunctionRoundRobin {
			attr.MinTimeSlice = c.nonNegative("min_time_slice", r.MinTimeSlice)
			attr.MaxTimeSlice = c.nonNegative("max_time_slice", r.MaxTimeSlice)
		}
		return c.result(event.NewJunctionEvent(t, attr))
	case TypeNewRoad:
		kind, ok := roadKinds[r.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown road kind %q", r.Kind)
		}
		attr := entity.RoadAttr{
			ID:         c.id("id", r.ID),
			Kind:       kind,
			From:       c.id("src", r.Src),
			To:         c.id("dest", r.Dest),
			SpeedLimit: c.positive("max_speed", r.MaxSpeed),
			Length:     c.positive("length", r.Length),
		}
		if kind == entity.RoadHighway {
			attr.Lanes = c.positive("lanes", r.Lanes)
		}
		return c.result(event.NewRoadEvent(t, attr))
	case TypeNewVehicle:
		kind, ok := vehicleKinds[r.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown vehicle kind %q", r.Kind)
		}
		attr := entity.VehicleAttr{
			ID:        c.id("id", r.ID),
			Kind:      kind,
			MaxSpeed:  c.nonNegative("max_speed", r.MaxSpeed),
			Itinerary: c.ids("itinerary", r.Itinerary, 2),
		}
		if kind == entity.VehicleCar {
			attr.Resistance = c.positive("resistance", r.Resistance)
			attr.FaultProbability = c.probability("fault_probability", r.FaultProbability)
			attr.MaxFaultDuration = c.positive("max_fault_duration", r.MaxFaultDuration)
			attr.Seed = defaultSeed(r.Seed)
		}
		return c.result(event.NewVehicleEvent(t, attr))
	case TypeFaultyVehicle:
		ids := c.ids("vehicles", r.Vehicles, 1)
		duration := c.positive("duration", r.Duration)
		return c.result(event.NewFaultyVehicleEvent(t, ids, duration))
	default:
		return nil, fmt.Errorf("unknown event type %q", r.Type)
	}
}

// defaultSeed 未指定种子的汽车使用当前时间（毫秒）作为种子
func defaultSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	s := time.Now().UnixMilli()
	log.Debugf("car without seed, use %d", s)
	return s
}

// checker 逐字段校验，只记录第一个错误
type checker struct {
	err error
}

func (c *checker) fail(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf(format, args...)
	}
}

func (c *checker) result(e event.Event) (event.Event, error) {
	if c.err != nil {
		return nil, c.err
	}
	return e, nil
}

// time 缺省为0，不能为负
func (c *checker) time(v *int) int32 {
	if v == nil {
		return 0
	}
	return int32(c.nonNegative("time", v))
}

func (c *checker) id(key string, v *string) string {
	if v == nil {
		c.fail("no %s found", key)
		return ""
	}
	if !idPattern.MatchString(*v) {
		c.fail("illegal %s %q", key, *v)
	}
	return *v
}

func (c *checker) ids(key string, v []string, minElems int) []string {
	if v == nil {
		c.fail("list %s not found", key)
		return nil
	}
	for _, id := range v {
		if !idPattern.MatchString(id) {
			c.fail("illegal id %q in %s", id, key)
		}
	}
	if len(v) < minElems {
		c.fail("%s needs at least %d elements, got %d", key, minElems, len(v))
	}
	return v
}

func (c *checker) nonNegative(key string, v *int) int {
	if v == nil {
		c.fail("%s not found", key)
		return 0
	}
	if *v < 0 {
		c.fail("negative %s %d", key, *v)
	}
	return *v
}

func (c *checker) positive(key string, v *int) int {
	if v == nil {
		c.fail("%s not found", key)
		return 0
	}
	if *v <= 0 {
		c.fail("non-positive %s %d", key, *v)
	}
	return *v
}

func (c *checker) probability(key string, v *float64) float64 {
	if v == nil {
		c.fail("%s not found", key)
		return 0
	}
	if *v < 0 || *v > 1 {
		c.fail("%s %v out of [0, 1]", key, *v)
	}
	return *v
}

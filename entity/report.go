package entity

import (
	"fmt"
	"strings"
)

// QueueReport 路口报告中一条驶入道路的队列状态
type QueueReport struct {
	RoadID       string   `yaml:"road" bson:"road"`
	Green        bool     `yaml:"green" bson:"green"`
	Remaining    int      `yaml:"remaining,omitempty" bson:"remaining,omitempty"` // 自适应路口绿灯剩余时长
	HasRemaining bool     `yaml:"-" bson:"-"`
	Waiting      []string `yaml:"waiting" bson:"waiting"` // 等待车辆ID，FIFO顺序
}

// String 格式为(r1,green,[v1,v2])或(r1,green:3,[])
func (q QueueReport) String() string {
	light := "red"
	if q.Green {
		light = "green"
	}
	if q.HasRemaining {
		light = fmt.Sprintf("%s:%d", light, q.Remaining)
	}
	return fmt.Sprintf("(%s,%s,[%s])", q.RoadID, light, strings.Join(q.Waiting, ","))
}

// JunctionReport 路口在某一时刻的状态
type JunctionReport struct {
	ID     string        `yaml:"id" bson:"id"`
	Time   int32         `yaml:"time" bson:"time"`
	Type   string        `yaml:"type,omitempty" bson:"type,omitempty"`
	Queues []QueueReport `yaml:"queues" bson:"queues"`
}

// QueuesString 所有驶入道路的队列状态，逗号分隔
func (r JunctionReport) QueuesString() string {
	return joinQueues(r.Queues, func(QueueReport) bool { return true })
}

// GreenString 绿灯道路的队列状态，没有绿灯时为"[]"
func (r JunctionReport) GreenString() string {
	return "[" + joinQueues(r.Queues, func(q QueueReport) bool { return q.Green }) + "]"
}

// RedString 红灯道路的队列状态
func (r JunctionReport) RedString() string {
	return "[" + joinQueues(r.Queues, func(q QueueReport) bool { return !q.Green }) + "]"
}

func joinQueues(queues []QueueReport, keep func(QueueReport) bool) string {
	parts := make([]string, 0, len(queues))
	for _, q := range queues {
		if keep(q) {
			parts = append(parts, q.String())
		}
	}
	return strings.Join(parts, ",")
}

// VehiclePosition 道路上的一辆车及其位置
type VehiclePosition struct {
	VehicleID string `yaml:"vehicle" bson:"vehicle"`
	Location  int    `yaml:"location" bson:"location"`
}

func (p VehiclePosition) String() string {
	return fmt.Sprintf("(%s,%d)", p.VehicleID, p.Location)
}

// RoadReport 道路在某一时刻的状态
type RoadReport struct {
	ID         string            `yaml:"id" bson:"id"`
	Time       int32             `yaml:"time" bson:"time"`
	Type       string            `yaml:"type,omitempty" bson:"type,omitempty"`
	From       string            `yaml:"from" bson:"from"`
	To         string            `yaml:"to" bson:"to"`
	Length     int               `yaml:"length" bson:"length"`
	SpeedLimit int               `yaml:"speed_limit" bson:"speed_limit"`
	State      []VehiclePosition `yaml:"state" bson:"state"` // 先等待车辆，再行驶车辆
}

// StateString 格式为(v1,80),(v2,30)
func (r RoadReport) StateString() string {
	parts := make([]string, len(r.State))
	for i, p := range r.State {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// VehicleReport 车辆在某一时刻的状态
type VehicleReport struct {
	ID          string   `yaml:"id" bson:"id"`
	Time        int32    `yaml:"time" bson:"time"`
	Type        string   `yaml:"type,omitempty" bson:"type,omitempty"`
	Speed       int      `yaml:"speed" bson:"speed"`
	Kilometrage int      `yaml:"kilometrage" bson:"kilometrage"`
	Faulty      int      `yaml:"faulty" bson:"faulty"`
	Arrived     bool     `yaml:"arrived" bson:"arrived"`
	Road        string   `yaml:"road,omitempty" bson:"road,omitempty"`
	Location    int      `yaml:"location" bson:"location"`
	Itinerary   []string `yaml:"itinerary" bson:"itinerary"`
}

// LocationString 格式为(r1,30)，到达终点后为arrived
func (r VehicleReport) LocationString() string {
	if r.Arrived {
		return "arrived"
	}
	return fmt.Sprintf("(%s,%d)", r.Road, r.Location)
}

// ItineraryString 格式为[j1,j2,j3]
func (r VehicleReport) ItineraryString() string {
	return "[" + strings.Join(r.Itinerary, ",") + "]"
}

// Snapshot 一个tick结束后全部实体的状态
type Snapshot struct {
	Time      int32
	Junctions []JunctionReport
	Roads     []RoadReport
	Vehicles  []VehicleReport
}

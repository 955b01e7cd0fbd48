// 报告输出：每个tick结束后把全部实体的报告写入YAML流或MongoDB
package output

import (
	"fmt"
	"io"

	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
	"gopkg.in/yaml.v2"
)

const (
	JunctionSection = "junction_report"
	RoadSection     = "road_report"
	VehicleSection  = "vehicle_report"
)

// Writer YAML报告输出
// 功能：每个tick写入一个YAML文档，文档为报告小节列表，依次为路口、道路、车辆
type Writer struct {
	w io.Writer
}

// NewWriter 创建YAML报告输出
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write 写入一个tick的报告
func (w *Writer) Write(snapshot *entity.Snapshot) error {
	data, err := Marshal(Sections(snapshot))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "---\n%s", data); err != nil {
		return err
	}
	return nil
}

// Marshal 序列化报告小节
func Marshal(sections []yaml.MapSlice) ([]byte, error) {
	if len(sections) == 0 {
		return []byte("[]\n"), nil
	}
	data, err := yaml.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("marshal reports: %w", err)
	}
	return data, nil
}

// Sections 把报告转换为有序的键值小节
// 说明：基础类型的实体没有type键
func Sections(snapshot *entity.Snapshot) []yaml.MapSlice {
	sections := make([]yaml.MapSlice, 0, len(snapshot.Junctions)+len(snapshot.Roads)+len(snapshot.Vehicles))
	for _, r := range snapshot.Junctions {
		body := yaml.MapSlice{
			{Key: "id", Value: r.ID},
			{Key: "time", Value: r.Time},
			{Key: "queues", Value: r.QueuesString()},
		}
		sections = append(sections, section(JunctionSection, withType(body, r.Type)))
	}
	for _, r := range snapshot.Roads {
		body := yaml.MapSlice{
			{Key: "id", Value: r.ID},
			{Key: "time", Value: r.Time},
		}
		body = withType(body, r.Type)
		body = append(body, yaml.MapItem{Key: "state", Value: r.StateString()})
		sections = append(sections, section(RoadSection, body))
	}
	for _, r := range snapshot.Vehicles {
		body := yaml.MapSlice{
			{Key: "id", Value: r.ID},
			{Key: "time", Value: r.Time},
		}
		body = withType(body, r.Type)
		body = append(body,
			yaml.MapItem{Key: "speed", Value: r.Speed},
			yaml.MapItem{Key: "kilometrage", Value: r.Kilometrage},
			yaml.MapItem{Key: "faulty", Value: r.Faulty},
			yaml.MapItem{Key: "location", Value: r.LocationString()},
		)
		sections = append(sections, section(VehicleSection, body))
	}
	return sections
}

func section(name string, body yaml.MapSlice) yaml.MapSlice {
	return yaml.MapSlice{{Key: name, Value: body}}
}

func withType(body yaml.MapSlice, tag string) yaml.MapSlice {
	if tag == "" {
		return body
	}
	return append(body, yaml.MapItem{Key: "type", Value: tag})
}

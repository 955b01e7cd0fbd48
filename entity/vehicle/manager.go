package vehicle

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// VehicleManager Vehicle管理器
// 功能：管理所有Vehicle实体，提供创建、查找、输出等功能
// 说明：车辆的推进由所在道路驱动，管理器本身没有更新阶段
type VehicleManager struct {
	ctx entity.ITaskContext

	data     map[string]*Vehicle
	vehicles []*Vehicle // 按注册顺序
}

// NewManager 创建Vehicle管理器实例
// 参数：ctx-任务上下文
// 返回：新创建的Vehicle管理器实例
func NewManager(ctx entity.ITaskContext) *VehicleManager {
	return &VehicleManager{
		ctx:      ctx,
		data:     make(map[string]*Vehicle),
		vehicles: make([]*Vehicle, 0),
	}
}

// New 创建Vehicle并放到行程第一条道路的起点
// 功能：检查ID唯一性与途经路口存在性，创建Vehicle并驶入第一条道路
// 参数：attr-车辆创建参数
// 返回：新创建的Vehicle，ID已存在时返回ErrAlreadyExists，路口或道路不存在时返回ErrNotExist
func (m *VehicleManager) New(attr entity.VehicleAttr) (entity.IVehicle, error) {
	if _, ok := m.data[attr.ID]; ok {
		return nil, fmt.Errorf("vehicle %s: %w", attr.ID, entity.ErrAlreadyExists)
	}
	if len(attr.Itinerary) < 2 {
		return nil, fmt.Errorf("vehicle %s: itinerary %v has less than 2 junctions", attr.ID, attr.Itinerary)
	}
	for _, id := range attr.Itinerary {
		if _, err := m.ctx.JunctionManager().GetOrError(id); err != nil {
			return nil, fmt.Errorf("itinerary of vehicle %s: %w", attr.ID, err)
		}
	}
	v := newVehicle(m.ctx, attr)
	if err := v.enter(); err != nil {
		return nil, err
	}
	m.data[v.id] = v
	m.vehicles = append(m.vehicles, v)
	log.Debugf("new vehicle %s on road %s", v.id, v.road.ID())
	return v, nil
}

// Get 根据ID获取Vehicle实例
// 功能：通过Vehicle ID查找对应的Vehicle对象，如果不存在则panic
func (m *VehicleManager) Get(id string) entity.IVehicle {
	if vehicle, ok := m.data[id]; !ok {
		log.Panicf("no id %s in vehicle data", id)
		return nil
	} else {
		return vehicle
	}
}

// GetOrError 根据ID获取Vehicle实例（带错误处理）
// 功能：通过Vehicle ID查找对应的Vehicle对象，如果不存在则返回包装了ErrNotExist的错误
func (m *VehicleManager) GetOrError(id string) (entity.IVehicle, error) {
	if vehicle, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in vehicle data: %w", id, entity.ErrNotExist)
	} else {
		return vehicle, nil
	}
}

// Vehicles 按注册顺序获取所有Vehicle
func (m *VehicleManager) Vehicles() []entity.IVehicle {
	return lo.Map(m.vehicles, func(v *Vehicle, _ int) entity.IVehicle { return v })
}

// Snapshots 产生所有Vehicle的报告
func (m *VehicleManager) Snapshots(time int32) []entity.VehicleReport {
	return parallel.GoMap(m.vehicles, func(v *Vehicle) entity.VehicleReport {
		return v.Snapshot(time)
	})
}

// Clear 清空所有Vehicle
func (m *VehicleManager) Clear() {
	m.data = make(map[string]*Vehicle)
	m.vehicles = make([]*Vehicle, 0)
}

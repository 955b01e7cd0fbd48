package road

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// RoadManager Road管理器
// 功能：管理所有Road实体，提供创建、查找、推进、输出等功能
type RoadManager struct {
	ctx entity.ITaskContext

	data  map[string]*Road
	roads []*Road // 按注册顺序
}

// NewManager 创建Road管理器实例
// 功能：初始化Road管理器，创建内部数据结构
// 参数：ctx-任务上下文
// 返回：新创建的Road管理器实例
func NewManager(ctx entity.ITaskContext) *RoadManager {
	return &RoadManager{
		ctx:   ctx,
		data:  make(map[string]*Road),
		roads: make([]*Road, 0),
	}
}

// New 创建Road并注册到起终点路口
// 功能：检查ID唯一性与路口存在性，创建Road，作为起点路口的驶出道路和终点路口的驶入道路
// 参数：attr-道路创建参数
// 返回：新创建的Road，ID已存在时返回ErrAlreadyExists，路口不存在时返回ErrNotExist
func (m *RoadManager) New(attr entity.RoadAttr) (entity.IRoad, error) {
	if _, ok := m.data[attr.ID]; ok {
		return nil, fmt.Errorf("road %s: %w", attr.ID, entity.ErrAlreadyExists)
	}
	from, err := m.ctx.JunctionManager().GetOrError(attr.From)
	if err != nil {
		return nil, fmt.Errorf("source of road %s: %w", attr.ID, err)
	}
	to, err := m.ctx.JunctionManager().GetOrError(attr.To)
	if err != nil {
		return nil, fmt.Errorf("destination of road %s: %w", attr.ID, err)
	}
	r := newRoad(m.ctx, attr)
	m.data[r.id] = r
	m.roads = append(m.roads, r)
	from.AddOutgoingRoad(r)
	to.AddIncomingRoad(r)
	log.Debugf("new road %s (%s -> %s)", r.id, r.from, r.to)
	return r, nil
}

// Get 根据ID获取Road实例
// 功能：通过Road ID查找对应的Road对象，如果不存在则panic
// 参数：id-Road的唯一标识符
// 返回：对应的Road实例，如果不存在则panic
func (m *RoadManager) Get(id string) entity.IRoad {
	if road, ok := m.data[id]; !ok {
		log.Panicf("no id %s in road data", id)
		return nil
	} else {
		return road
	}
}

// GetOrError 根据ID获取Road实例（带错误处理）
// 功能：通过Road ID查找对应的Road对象，如果不存在则返回错误
// 参数：id-Road的唯一标识符
// 返回：Road实例和错误信息，如果不存在则返回nil和包装了ErrNotExist的错误
func (m *RoadManager) GetOrError(id string) (entity.IRoad, error) {
	if road, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in road data: %w", id, entity.ErrNotExist)
	} else {
		return road, nil
	}
}

// Roads 按注册顺序获取所有Road
func (m *RoadManager) Roads() []entity.IRoad {
	return lo.Map(m.roads, func(r *Road, _ int) entity.IRoad { return r })
}

// Update 更新阶段，按注册顺序推进所有Road
// 说明：车辆会跨道路移动，必须串行执行
func (m *RoadManager) Update() {
	for _, r := range m.roads {
		r.Proceed()
	}
}

// Snapshots 产生所有Road的报告
// 说明：只读操作，并行生成，结果保持注册顺序
func (m *RoadManager) Snapshots(time int32) []entity.RoadReport {
	return parallel.GoMap(m.roads, func(r *Road) entity.RoadReport {
		return r.Snapshot(time)
	})
}

// Clear 清空所有Road
func (m *RoadManager) Clear() {
	m.data = make(map[string]*Road)
	m.roads = make([]*Road, 0)
}

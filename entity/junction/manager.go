package junction

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trafficsim-oss/entity"
)

// Junction管理器
type JunctionManager struct {
	ctx entity.ITaskContext

	data      map[string]*Junction
	junctions []*Junction // 按注册顺序
}

// NewManager 创建Junction管理器实例
// 功能：初始化Junction管理器，创建内部数据结构
// 参数：ctx-任务上下文
// 返回：新创建的Junction管理器实例
func NewManager(ctx entity.ITaskContext) *JunctionManager {
	return &JunctionManager{
		ctx:       ctx,
		data:      make(map[string]*Junction),
		junctions: make([]*Junction, 0),
	}
}

// New 创建并注册Junction
// 参数：attr-路口创建参数
// 返回：新创建的Junction，ID已存在时返回ErrAlreadyExists
func (m *JunctionManager) New(attr entity.JunctionAttr) (entity.IJunction, error) {
	if _, ok := m.data[attr.ID]; ok {
		return nil, fmt.Errorf("junction %s: %w", attr.ID, entity.ErrAlreadyExists)
	}
	j := newJunction(m.ctx, attr)
	m.data[j.id] = j
	m.junctions = append(m.junctions, j)
	log.Debugf("new junction %s", j.id)
	return j, nil
}

// Get 根据ID获取Junction实例
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则panic
// 参数：id-Junction的唯一标识符
// 返回：对应的Junction实例，如果不存在则panic
func (m *JunctionManager) Get(id string) entity.IJunction {
	if junction, ok := m.data[id]; !ok {
		log.Panicf("no id %s in junction data", id)
		return nil
	} else {
		return junction
	}
}

// GetOrError 根据ID获取Junction实例（带错误处理）
// 功能：通过Junction ID查找对应的Junction对象，如果不存在则返回错误
// 参数：id-Junction的唯一标识符
// 返回：Junction实例和错误信息，如果不存在则返回nil和包装了ErrNotExist的错误
func (m *JunctionManager) GetOrError(id string) (entity.IJunction, error) {
	if junction, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %s in junction data: %w", id, entity.ErrNotExist)
	} else {
		return junction, nil
	}
}

// Junctions 按注册顺序获取所有Junction
func (m *JunctionManager) Junctions() []entity.IJunction {
	return lo.Map(m.junctions, func(j *Junction, _ int) entity.IJunction { return j })
}

// Update 更新阶段，按注册顺序推进所有Junction
// 说明：车辆通过路口会修改其他道路，必须串行执行
func (m *JunctionManager) Update() {
	for _, j := range m.junctions {
		j.Proceed()
	}
}

// Snapshots 产生所有Junction的报告
func (m *JunctionManager) Snapshots(time int32) []entity.JunctionReport {
	return parallel.GoMap(m.junctions, func(j *Junction) entity.JunctionReport {
		return j.Snapshot(time)
	})
}

// Clear 清空所有Junction
func (m *JunctionManager) Clear() {
	m.data = make(map[string]*Junction)
	m.junctions = make([]*Junction, 0)
}

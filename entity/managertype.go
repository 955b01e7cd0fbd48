package entity

// Manager依赖倒置

// entity/junction/manager.go的依赖倒置
type IJunctionManager interface {
	// 创建并注册路口，ID已存在则返回ErrAlreadyExists
	New(attr JunctionAttr) (IJunction, error)

	// 输入Junction ID，查找Junction，如果不存在则panic
	Get(id string) IJunction
	// 输入Junction ID，查找Junction，如果不存在则返回error
	GetOrError(id string) (IJunction, error)
	// 按注册顺序获取所有Junction
	Junctions() []IJunction
	// 按注册顺序产生所有Junction的报告
	Snapshots(time int32) []JunctionReport

	Update() // 更新阶段
	Clear()  // 清空
}

// entity/road/manager.go的依赖倒置
type IRoadManager interface {
	// 创建道路并注册到两端路口，ID已存在则返回ErrAlreadyExists，路口不存在则返回ErrNotExist
	New(attr RoadAttr) (IRoad, error)

	// 输入Road ID，查找Road，如果不存在则panic
	Get(id string) IRoad
	// 输入Road ID，查找Road，如果不存在则返回error
	GetOrError(id string) (IRoad, error)
	// 按注册顺序获取所有Road
	Roads() []IRoad
	// 按注册顺序产生所有Road的报告
	Snapshots(time int32) []RoadReport

	Update() // 更新阶段
	Clear()  // 清空
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	// 创建车辆并放到行程第一条道路的起点
	New(attr VehicleAttr) (IVehicle, error)

	// 输入Vehicle ID，查找Vehicle，如果不存在则panic
	Get(id string) IVehicle
	// 输入Vehicle ID，查找Vehicle，如果不存在则返回error
	GetOrError(id string) (IVehicle, error)
	// 按注册顺序获取所有Vehicle
	Vehicles() []IVehicle
	// 按注册顺序产生所有Vehicle的报告
	Snapshots(time int32) []VehicleReport

	Clear() // 清空
}

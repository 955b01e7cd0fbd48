package config

// InputPath 指定数据来源的配置（MongoDB、文件系统）
// 功能：定义数据路径的配置结构，文件优先于MongoDB
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器输入数据的配置项
type Input struct {
	URI    string    `yaml:"uri,omitempty"` // MongoDB连接字符串
	Events InputPath `yaml:"events"`        // 事件场景
}

// Control 模拟器控制配置
// 功能：定义运行步数、播放间隔与失败处理方式
type Control struct {
	Steps       int  `yaml:"steps,omitempty"`       // 运行步数，默认10
	DelayMs     int  `yaml:"delay_ms,omitempty"`    // 两个tick之间的间隔（毫秒）
	Interactive bool `yaml:"interactive,omitempty"` // tick失败后重置模拟而不是终止
}

// MongoOutput 报告写入MongoDB的配置
type MongoOutput struct {
	URI string `yaml:"uri,omitempty"` // MongoDB连接字符串，为空时使用input.uri
	DB  string `yaml:"db"`            // 数据库名
	Col string `yaml:"col"`           // 集合名
}

// GetDb 获取数据库名
func (o MongoOutput) GetDb() string {
	return o.DB
}

// GetColl 获取集合名
func (o MongoOutput) GetColl() string {
	return o.Col
}

// Output 报告输出配置
type Output struct {
	File  string       `yaml:"file,omitempty"`  // YAML报告文件，"-"表示标准输出
	Mongo *MongoOutput `yaml:"mongo,omitempty"` // MongoDB报告输出
	Graph string       `yaml:"graph,omitempty"` // 路网DOT文件
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含输入、控制、输出等所有配置项
type Config struct {
	Input   Input   `yaml:"input"`            // 输入
	Control Control `yaml:"control"`          // 模拟过程控制
	Output  Output  `yaml:"output,omitempty"` // 输出
}

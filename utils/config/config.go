package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultSteps = 10
)

// RuntimeConfig 运行时配置
// 功能：存储补全默认值后的配置
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补全默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：未指定步数时默认运行10步，MongoDB输出未指定连接字符串时沿用输入的连接字符串
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}
	if config.Control.Steps <= 0 {
		config.Control.Steps = defaultSteps
	}
	if config.Control.DelayMs < 0 {
		config.Control.DelayMs = 0
	}
	if config.Output.Mongo != nil && config.Output.Mongo.URI == "" {
		mongo := *config.Output.Mongo
		mongo.URI = config.Input.URI
		config.Output.Mongo = &mongo
	}
	rc.All = config
	rc.C = config.Control
	return rc
}

// Delay 两个tick之间的间隔
func (rc *RuntimeConfig) Delay() time.Duration {
	return time.Duration(rc.C.DelayMs) * time.Millisecond
}

// Parse 严格解析YAML配置，未知字段视为错误
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

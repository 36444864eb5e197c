// Package config 动画导出参数配置.
// 参数从 YAML 文件读取,缺省值来自 types 包中的默认参数.
package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"keyframe/types"
)

// Params 动画削减参数
type Params struct {
	InterpolationThreshold    float64       `yaml:"interpolation_threshold"`           // 非线性段插值偏差阈值
	QuaternionThreshold       float64       `yaml:"quaternion_threshold"`              // 旋转类型转换偏差阈值
	GeneralOptimThreshold     float64       `yaml:"general_optimization_threshold"`    // 通用优化阈值
	QuaternionOptimThreshold  float64       `yaml:"quaternion_optimization_threshold"` // 四元数优化阈值
	RotationMode              string        `yaml:"rotation_mode"`                     // KEEP / QUATERNION
	RotateZYX                 bool          `yaml:"rotate_zyx"`                        // 按 ZYX 顺序旋转
	EnsurePositiveEulerAngles bool          `yaml:"ensure_positive_euler_angles"`      // 欧拉角折算为正值
	Workers                   int           `yaml:"workers"`                           // 并发通道数量
	Logging                   LoggingConfig `yaml:"logging"`                           // 日志
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // 开发模式输出
}

// Default 默认参数
func Default() Params {
	return Params{
		InterpolationThreshold:   types.DefaultInterpolationThreshold,
		QuaternionThreshold:      types.DefaultQuaternionThreshold,
		GeneralOptimThreshold:    types.DefaultGeneralOptimThreshold,
		QuaternionOptimThreshold: types.DefaultQuaternionOptimThreshold,
		RotationMode:             types.RotationKeep,
		Workers:                  types.DefaultWorkers,
		Logging:                  LoggingConfig{Level: "info"},
	}
}

// Load 从 YAML 文件加载参数,文件不存在时返回默认参数
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Params{}, fmt.Errorf("读取配置失败: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 参数,未设置的字段保持默认值
func Parse(data []byte) (Params, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("解析配置失败: %w", err)
	}
	p.RotationMode = strings.ToUpper(p.RotationMode)
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate 检查参数
func (p Params) Validate() error {
	thresholds := map[string]float64{
		"interpolation_threshold":           p.InterpolationThreshold,
		"quaternion_threshold":              p.QuaternionThreshold,
		"general_optimization_threshold":    p.GeneralOptimThreshold,
		"quaternion_optimization_threshold": p.QuaternionOptimThreshold,
	}
	for name, v := range thresholds {
		if v < 0 {
			return fmt.Errorf("参数 %s 不能为负数: %v", name, v)
		}
	}
	switch p.RotationMode {
	case types.RotationKeep, types.RotationQuaternion:
	default:
		return fmt.Errorf("无效的旋转模式: %q (可选: %s, %s)", p.RotationMode, types.RotationKeep, types.RotationQuaternion)
	}
	if p.Workers < 0 {
		return fmt.Errorf("并发数量不能为负数: %d", p.Workers)
	}
	if _, err := zapcore.ParseLevel(p.Logging.Level); err != nil {
		return fmt.Errorf("无效的日志级别: %w", err)
	}
	return nil
}

// Save 写入 YAML 文件
func (p Params) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置失败: %w", err)
	}
	return nil
}

// Logger 按日志配置创建 zap 日志,verbose 时强制 debug 级别
func (l LoggingConfig) Logger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if l.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return logger, nil
}

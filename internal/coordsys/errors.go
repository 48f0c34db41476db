package coordsys

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation 坐标越界、非有限值或批量长度不一致
	ErrValidation = errors.New("coordsys: invalid input")
	// ErrConfig 未知坐标系标签
	ErrConfig = errors.New("coordsys: invalid coordinate system")
)

// ValidationError 在任何换算执行前返回；Index 为批量中的下标，单点调用时为 -1
type ValidationError struct {
	Index  int
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("coordsys: point %d: %s=%v: %s", e.Index, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("coordsys: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConfigError 在分派阶段返回
type ConfigError struct {
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("coordsys: %q: %s", e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

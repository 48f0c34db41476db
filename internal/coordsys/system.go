// 包 coordsys：WGS-84 / GCJ-02 / BD-09 三种坐标系之间的换算内核；纯函数、无 I/O、无全局可变状态
package coordsys

import (
	"fmt"
	"strings"
)

// System 坐标系标签（封闭枚举）
// 约束：零值 Unknown 不是合法坐标系；数值与标签必须同时出现，标签从不推断。
type System int

const (
	Unknown System = iota
	WGS84
	GCJ02
	BD09
)

// Systems 返回全部合法坐标系，顺序固定
func Systems() []System { return []System{WGS84, GCJ02, BD09} }

func (s System) Valid() bool { return s == WGS84 || s == GCJ02 || s == BD09 }

func (s System) String() string {
	switch s {
	case WGS84:
		return "WGS-84"
	case GCJ02:
		return "GCJ-02"
	case BD09:
		return "BD-09"
	}
	return fmt.Sprintf("System(%d)", int(s))
}

// 文档注释：解析坐标系名称
// 背景：外部调用方（HTTP/CLI）以字符串传入坐标系；在进入换算前统一收敛到封闭枚举。
// 约束：大小写不敏感，允许常见别名（gps/amap/baidu）；其它取值返回 ConfigError。
func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wgs84", "wgs-84", "wgs", "gps":
		return WGS84, nil
	case "gcj02", "gcj-02", "gcj", "amap", "gaode":
		return GCJ02, nil
	case "bd09", "bd-09", "bd", "baidu":
		return BD09, nil
	}
	return Unknown, &ConfigError{Value: s, Reason: "unknown coordinate system"}
}

// MarshalText 以规范名称输出，便于 JSON 序列化
func (s System) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &ConfigError{Value: s.String(), Reason: "unknown coordinate system"}
	}
	return []byte(s.String()), nil
}

func (s *System) UnmarshalText(b []byte) error {
	v, err := ParseSystem(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

package coordsys

import (
	"fmt"
	"math"
)

// LatLon 无标签的经纬度对，用于批量接口；坐标系由批量调用统一声明
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point 携带坐标系标签的不可变坐标点；只能经 NewPoint 构造，换算产生新值
type Point struct {
	lat float64
	lon float64
	sys System
}

// NewPoint 校验范围与标签后构造坐标点
func NewPoint(lat, lon float64, sys System) (Point, error) {
	if !sys.Valid() {
		return Point{}, &ConfigError{Value: sys.String(), Reason: "unknown coordinate system"}
	}
	if err := validateLatLon(-1, lat, lon); err != nil {
		return Point{}, err
	}
	return Point{lat: lat, lon: lon, sys: sys}, nil
}

func (p Point) Lat() float64   { return p.lat }
func (p Point) Lon() float64   { return p.lon }
func (p Point) System() System { return p.sys }
func (p Point) LatLon() LatLon { return LatLon{Lat: p.lat, Lon: p.lon} }

// To 换算到目标坐标系
func (p Point) To(to System) (Point, error) { return Convert(p, to) }

func (p Point) String() string {
	return fmt.Sprintf("%s(%.7f, %.7f)", p.sys, p.lat, p.lon)
}

// 文档注释：经纬度范围校验
// 约束：纬度 [-90,90]、经度 [-180,180]，NaN/Inf 一律拒绝；idx<0 表示单点调用。
func validateLatLon(idx int, lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		return &ValidationError{Index: idx, Field: "lat", Value: lat, Reason: "not a finite number"}
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return &ValidationError{Index: idx, Field: "lon", Value: lon, Reason: "not a finite number"}
	}
	if lat < -90 || lat > 90 {
		return &ValidationError{Index: idx, Field: "lat", Value: lat, Reason: "out of range [-90, 90]"}
	}
	if lon < -180 || lon > 180 {
		return &ValidationError{Index: idx, Field: "lon", Value: lon, Reason: "out of range [-180, 180]"}
	}
	return nil
}

// 文档注释：把换算结果收回合法范围
// 背景：BD-09 闭式变换不受包围盒限制，极点与反子午线附近的结果会越出 [-90,90]/[-180,180] 几毫度。
// 约束：纬度截断到 ±90，经度按 360 度回绕；范围内的值原样返回。
func normalize(lat, lon float64) (float64, float64) {
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return lat, lon
}

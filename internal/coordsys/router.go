package coordsys

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// transformFunc 单点换算，输入输出均为 (lat, lon)
type transformFunc func(lat, lon float64) (float64, float64)

func identity(lat, lon float64) (float64, float64) { return lat, lon }

func wgs84ToBD09(lat, lon float64) (float64, float64) {
	return GCJ02ToBD09(WGS84ToGCJ02(lat, lon))
}

func bd09ToWGS84(lat, lon float64) (float64, float64) {
	return GCJ02ToWGS84(BD09ToGCJ02(lat, lon))
}

// 文档注释：按 (from, to) 选择换算函数
// 背景：图只有两条原语边（WGS↔GCJ、GCJ↔BD），WGS 与 BD 之间一律经 GCJ-02 中转；六个有序对固定查表，不做图搜索。
// 约束：标签非法时返回 ConfigError，任何数值计算前完成。
func route(from, to System) (transformFunc, error) {
	if !from.Valid() {
		return nil, &ConfigError{Value: from.String(), Reason: "unknown source coordinate system"}
	}
	if !to.Valid() {
		return nil, &ConfigError{Value: to.String(), Reason: "unknown target coordinate system"}
	}
	switch {
	case from == to:
		return identity, nil
	case from == WGS84 && to == GCJ02:
		return WGS84ToGCJ02, nil
	case from == GCJ02 && to == WGS84:
		return GCJ02ToWGS84, nil
	case from == GCJ02 && to == BD09:
		return GCJ02ToBD09, nil
	case from == BD09 && to == GCJ02:
		return BD09ToGCJ02, nil
	case from == WGS84 && to == BD09:
		return wgs84ToBD09, nil
	case from == BD09 && to == WGS84:
		return bd09ToWGS84, nil
	}
	return nil, &ConfigError{Value: fmt.Sprintf("%s->%s", from, to), Reason: "no conversion path"}
}

// Convert 将带标签的点换算到目标坐标系，返回新点
func Convert(p Point, to System) (Point, error) {
	if !p.sys.Valid() {
		return Point{}, &ConfigError{Value: p.sys.String(), Reason: "point has no coordinate system"}
	}
	f, err := route(p.sys, to)
	if err != nil {
		return Point{}, err
	}
	lat, lon := normalize(f(p.lat, p.lon))
	return Point{lat: lat, lon: lon, sys: to}, nil
}

// ConvertLatLon 单点换算：先校验标签与范围，再换算；结果总在合法范围内
func ConvertLatLon(lat, lon float64, from, to System) (float64, float64, error) {
	f, err := route(from, to)
	if err != nil {
		return 0, 0, err
	}
	if err := validateLatLon(-1, lat, lon); err != nil {
		return 0, 0, err
	}
	oLat, oLon := normalize(f(lat, lon))
	return oLat, oLon, nil
}

// BatchOption 批量换算参数
type BatchOption func(*batchConfig)

type batchConfig struct {
	workers   int
	chunkSize int
}

// WithWorkers 限制并发分片数；n<=1 时顺序执行
func WithWorkers(n int) BatchOption { return func(c *batchConfig) { c.workers = n } }

// WithChunkSize 每个并发分片处理的点数；批量不超过一个分片时不启动协程
func WithChunkSize(n int) BatchOption {
	return func(c *batchConfig) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

const defaultChunkSize = 4096

// 文档注释：批量换算
// 背景：点与点之间相互独立，大批量按下标分片并发处理，结果写回原下标，输出与输入等长同序。
// 约束：先完整校验标签与所有点，任一失败即返回错误且不产生任何输出；不做部分结果。
func ConvertBatch(pts []LatLon, from, to System, opts ...BatchOption) ([]LatLon, error) {
	f, err := route(from, to)
	if err != nil {
		return nil, err
	}
	for i, p := range pts {
		if err := validateLatLon(i, p.Lat, p.Lon); err != nil {
			return nil, err
		}
	}
	cfg := batchConfig{workers: runtime.NumCPU(), chunkSize: defaultChunkSize}
	for _, o := range opts {
		o(&cfg)
	}
	out := make([]LatLon, len(pts))
	if cfg.workers <= 1 || len(pts) <= cfg.chunkSize {
		apply(f, pts, out)
		return out, nil
	}
	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for lo := 0; lo < len(pts); lo += cfg.chunkSize {
		hi := min(lo+cfg.chunkSize, len(pts))
		in, dst := pts[lo:hi], out[lo:hi]
		g.Go(func() error {
			apply(f, in, dst)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertPairs 两条平行序列（纬度、经度）形式的批量换算；长度不一致视为 ValidationError
func ConvertPairs(lats, lons []float64, from, to System, opts ...BatchOption) ([]float64, []float64, error) {
	if len(lats) != len(lons) {
		return nil, nil, &ValidationError{
			Index:  -1,
			Field:  "length",
			Value:  float64(len(lons)),
			Reason: fmt.Sprintf("lon count does not match lat count %d", len(lats)),
		}
	}
	pts := make([]LatLon, len(lats))
	for i := range lats {
		pts[i] = LatLon{Lat: lats[i], Lon: lons[i]}
	}
	res, err := ConvertBatch(pts, from, to, opts...)
	if err != nil {
		return nil, nil, err
	}
	oLats := make([]float64, len(res))
	oLons := make([]float64, len(res))
	for i, p := range res {
		oLats[i], oLons[i] = p.Lat, p.Lon
	}
	return oLats, oLons, nil
}

func apply(f transformFunc, in, out []LatLon) {
	for i, p := range in {
		lat, lon := normalize(f(p.Lat, p.Lon))
		out[i] = LatLon{Lat: lat, Lon: lon}
	}
}

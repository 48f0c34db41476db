package coordsys

// 中国大陆外包矩形（边界含在内）
const (
	chinaMinLon = 72.004
	chinaMaxLon = 137.8347
	chinaMinLat = 0.8293
	chinaMaxLat = 55.8271
)

// Region 包围盒判定结果
type Region int

const (
	InsideChina Region = iota + 1
	OutsideChina
)

func (r Region) String() string {
	switch r {
	case InsideChina:
		return "inside_china"
	case OutsideChina:
		return "outside_china"
	}
	return "unknown"
}

func (r Region) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// 文档注释：判定坐标是否位于需加偏的区域之外
// 背景：粗粒度矩形，仅用于决定 GCJ-02 偏移是否适用，并非精确国界。
// 约束：纯函数；任意有限经纬度均可输入。
func OutOfChina(lat, lon float64) bool { return outsideEnvelope(lat, lon, 0) }

// outsideEnvelope 判定点是否在向外扩展 margin 度后的包围盒之外
func outsideEnvelope(lat, lon, margin float64) bool {
	return lon < chinaMinLon-margin || lon > chinaMaxLon+margin || lat < chinaMinLat-margin || lat > chinaMaxLat+margin
}

// Classify 返回 InsideChina / OutsideChina
func Classify(lat, lon float64) Region {
	if OutOfChina(lat, lon) {
		return OutsideChina
	}
	return InsideChina
}

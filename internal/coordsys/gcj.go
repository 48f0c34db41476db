package coordsys

import "math"

// 克拉索夫斯基椭球参数
const (
	krasovskyA  = 6378245.0
	krasovskyEE = 0.00669342162296594323
)

// 反解迭代参数：相邻两次估计差小于 InverseEpsilon 度或达到 InverseMaxIter 次即停止
const (
	InverseEpsilon = 1e-9
	InverseMaxIter = 10
)

// 文档注释：WGS-84 → GCJ-02
// 背景：偏移量由以 (105°E, 35°N) 为原点的多项式+三角级数给出，再按所在纬度的椭球曲率半径换算为度。
// 约束：包围盒之外原样返回；单向变换，不存在代数逆。
func WGS84ToGCJ02(lat, lon float64) (float64, float64) {
	if OutOfChina(lat, lon) {
		return lat, lon
	}
	dLat, dLon := offset(lat, lon)
	return lat + dLat, lon + dLon
}

// 反解搜索范围：偏移量全域不超过约 0.011 度，包围盒外扩 inverseMargin 之外的 GCJ-02 点不可能由盒内点产生
const (
	inverseMargin = 0.05
	inverseSlack  = 1e-8
)

// 文档注释：GCJ-02 → WGS-84（不动点迭代）
// 背景：求 w 使 w + offset(w) = gcj；靠近北、东边界的盒内点加偏后会落到盒外，
// 因此不能按 GCJ-02 输入是否在盒内决定是否反解，而是看解出的 WGS-84 点是否在盒内。
// 约束：离包围盒超过 inverseMargin 的输入原样返回；解落在盒外（容差 inverseSlack）时同样原样返回，
// 与正向变换在盒外恒等保持一致。迭代次数与精度上限固定，不会无限循环。
func GCJ02ToWGS84(lat, lon float64) (float64, float64) {
	if outsideEnvelope(lat, lon, inverseMargin) {
		return lat, lon
	}
	wLat, wLon := lat, lon
	for i := 0; i < InverseMaxIter; i++ {
		dLat, dLon := offset(wLat, wLon)
		nLat, nLon := lat-dLat, lon-dLon
		done := math.Abs(nLat-wLat) < InverseEpsilon && math.Abs(nLon-wLon) < InverseEpsilon
		wLat, wLon = nLat, nLon
		if done {
			break
		}
	}
	if outsideEnvelope(wLat, wLon, inverseSlack) {
		return lat, lon
	}
	return wLat, wLon
}

// GCJ02ToWGS84Rough 单步修正：wgs = 2*gcj - forward(gcj)，误差在米级
func GCJ02ToWGS84Rough(lat, lon float64) (float64, float64) {
	if OutOfChina(lat, lon) {
		return lat, lon
	}
	dLat, dLon := offset(lat, lon)
	return lat - dLat, lon - dLon
}

// offset 返回给定点处的 (dLat, dLon)，单位为度
func offset(lat, lon float64) (float64, float64) {
	x, y := lon-105.0, lat-35.0
	dLat := transformLat(x, y)
	dLon := transformLon(x, y)
	radLat := lat / 180.0 * math.Pi
	magic := math.Sin(radLat)
	magic = 1 - krasovskyEE*magic*magic
	sqrtMagic := math.Sqrt(magic)
	dLat = (dLat * 180.0) / ((krasovskyA * (1 - krasovskyEE)) / (magic * sqrtMagic) * math.Pi)
	dLon = (dLon * 180.0) / (krasovskyA / sqrtMagic * math.Cos(radLat) * math.Pi)
	return dLat, dLon
}

func transformLat(x, y float64) float64 {
	ret := -100.0 + 2.0*x + 3.0*y + 0.2*y*y + 0.1*x*y + 0.2*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(y*math.Pi) + 40.0*math.Sin(y/3.0*math.Pi)) * 2.0 / 3.0
	ret += (160.0*math.Sin(y/12.0*math.Pi) + 320*math.Sin(y*math.Pi/30.0)) * 2.0 / 3.0
	return ret
}

func transformLon(x, y float64) float64 {
	ret := 300.0 + x + 2.0*y + 0.1*x*x + 0.1*x*y + 0.1*math.Sqrt(math.Abs(x))
	ret += (20.0*math.Sin(6.0*x*math.Pi) + 20.0*math.Sin(2.0*x*math.Pi)) * 2.0 / 3.0
	ret += (20.0*math.Sin(x*math.Pi) + 40.0*math.Sin(x/3.0*math.Pi)) * 2.0 / 3.0
	ret += (150.0*math.Sin(x/12.0*math.Pi) + 300.0*math.Sin(x/30.0*math.Pi)) * 2.0 / 3.0
	return ret
}

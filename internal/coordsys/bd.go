package coordsys

import "math"

const xPi = math.Pi * 3000.0 / 180.0

// 文档注释：GCJ-02 → BD-09
// 背景：在极坐标下对半径与角度各加一个小扰动后平移；闭式变换，不受包围盒限制。
func GCJ02ToBD09(lat, lon float64) (float64, float64) {
	z := math.Sqrt(lon*lon+lat*lat) + 0.00002*math.Sin(lat*xPi)
	theta := math.Atan2(lat, lon) + 0.000003*math.Cos(lon*xPi)
	return z*math.Sin(theta) + 0.006, z*math.Cos(theta) + 0.0065
}

// 文档注释：BD-09 → GCJ-02
// 背景：闭式反算的扰动项取的是 BD-09 侧坐标，与正向不严格互逆，往返残差可达 4e-6 度；
// 这里在闭式结果上再做一次正向回代修正，往返残差压到 1e-7 度以下。
func BD09ToGCJ02(lat, lon float64) (float64, float64) {
	gLat, gLon := BD09ToGCJ02Rough(lat, lon)
	bLat, bLon := GCJ02ToBD09(gLat, gLon)
	return gLat - (bLat - lat), gLon - (bLon - lon)
}

// BD09ToGCJ02Rough 纯闭式反算：先扣除平移再反算极坐标
func BD09ToGCJ02Rough(lat, lon float64) (float64, float64) {
	x := lon - 0.0065
	y := lat - 0.006
	z := math.Sqrt(x*x+y*y) - 0.00002*math.Sin(y*xPi)
	theta := math.Atan2(y, x) - 0.000003*math.Cos(x*xPi)
	return z * math.Sin(theta), z * math.Cos(theta)
}

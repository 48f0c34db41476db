package coordsys

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 中国境内采样点（远离包围盒边界）
var insideSamples = []LatLon{
	{39.99837, 116.3203},
	{39.98565, 116.2998},
	{31.2304, 121.4737},
	{22.5431, 114.0579},
	{30, 110},
	{45.75, 126.65},
	{29.6469, 91.1175},
	{43.8256, 87.6168},
	{18.2528, 109.5119},
}

func TestWGS84ToGCJ02_OutsideIsIdentity(t *testing.T) {
	for _, p := range []LatLon{{51.5074, -0.1278}, {-33.8688, 151.2093}, {0.8, 100}, {35.6895, 139.6917}, {-90, -180}, {90, 180}} {
		lat, lon := WGS84ToGCJ02(p.Lat, p.Lon)
		assert.Equal(t, p.Lat, lat)
		assert.Equal(t, p.Lon, lon)
		lat, lon = GCJ02ToWGS84(p.Lat, p.Lon)
		assert.Equal(t, p.Lat, lat)
		assert.Equal(t, p.Lon, lon)
	}
}

func TestWGS84ToGCJ02_Beijing(t *testing.T) {
	lat, lon := WGS84ToGCJ02(39.99837, 116.3203)
	assert.InDelta(t, 39.99967030631566, lat, 1e-9)
	assert.InDelta(t, 116.32642771036656, lon, 1e-9)
}

func TestWGS84ToGCJ02_OffsetMagnitude(t *testing.T) {
	// 偏移量在数百米量级
	for _, p := range insideSamples {
		lat, lon := WGS84ToGCJ02(p.Lat, p.Lon)
		d := math.Hypot(lat-p.Lat, lon-p.Lon)
		assert.Greater(t, d, 1e-4, "%v", p)
		assert.Less(t, d, 1e-2, "%v", p)
	}
}

func TestGCJ02ToWGS84_RoundTrip(t *testing.T) {
	for _, p := range insideSamples {
		gLat, gLon := WGS84ToGCJ02(p.Lat, p.Lon)
		wLat, wLon := GCJ02ToWGS84(gLat, gLon)
		assert.InDelta(t, p.Lat, wLat, 1e-9, "%v", p)
		assert.InDelta(t, p.Lon, wLon, 1e-9, "%v", p)
	}
}

func TestGCJ02ToWGS84Rough_WithinMeters(t *testing.T) {
	for _, p := range insideSamples {
		gLat, gLon := WGS84ToGCJ02(p.Lat, p.Lon)
		wLat, wLon := GCJ02ToWGS84Rough(gLat, gLon)
		assert.InDelta(t, p.Lat, wLat, 1e-4, "%v", p)
		assert.InDelta(t, p.Lon, wLon, 1e-4, "%v", p)
	}
}

func TestGCJ02ToWGS84_RoundTripGrid(t *testing.T) {
	for lat := 5.0; lat <= 50; lat += 2.5 {
		for lon := 80.0; lon <= 130; lon += 2.5 {
			gLat, gLon := WGS84ToGCJ02(lat, lon)
			wLat, wLon := GCJ02ToWGS84(gLat, gLon)
			if math.Abs(wLat-lat) > 1e-5 || math.Abs(wLon-lon) > 1e-5 {
				t.Fatalf("round trip (%v, %v) -> (%v, %v)", lat, lon, wLat, wLon)
			}
		}
	}
}

// 沿包围盒四条边逐 0.01° 扫描；北、东边界附近加偏后的点落在盒外，仍须反解回原点
func TestGCJ02ToWGS84_RoundTripEnvelopeEdges(t *testing.T) {
	var pts []LatLon
	for lon := chinaMinLon; lon <= chinaMaxLon; lon += 0.01 {
		pts = append(pts, LatLon{chinaMinLat, lon}, LatLon{chinaMaxLat, lon})
	}
	for lat := chinaMinLat; lat <= chinaMaxLat; lat += 0.01 {
		pts = append(pts, LatLon{lat, chinaMinLon}, LatLon{lat, chinaMaxLon})
	}
	pts = append(pts, LatLon{chinaMaxLat, chinaMaxLon}, LatLon{chinaMinLat, chinaMaxLon})

	worst, at := 0.0, LatLon{}
	for _, p := range pts {
		gLat, gLon := WGS84ToGCJ02(p.Lat, p.Lon)
		wLat, wLon := GCJ02ToWGS84(gLat, gLon)
		if e := math.Max(math.Abs(wLat-p.Lat), math.Abs(wLon-p.Lon)); e > worst {
			worst, at = e, p
		}
	}
	assert.Less(t, worst, 1e-9, "worst at %v", at)
}

func TestGCJ02ToWGS84_NorthEdgeLeavesBox(t *testing.T) {
	gLat, gLon := WGS84ToGCJ02(55.8271, 131.404)
	assert.True(t, OutOfChina(gLat, gLon))
	wLat, wLon := GCJ02ToWGS84(gLat, gLon)
	assert.InDelta(t, 55.8271, wLat, 1e-9)
	assert.InDelta(t, 131.404, wLon, 1e-9)
}

func TestGCJ02ToWGS84_NearOutsideWithoutPreimage(t *testing.T) {
	// 盒外且没有盒内原像的点原样返回
	for _, p := range []LatLon{{55.83, 120}, {0.82, 110}, {30, 71.99}} {
		lat, lon := GCJ02ToWGS84(p.Lat, p.Lon)
		assert.Equal(t, p.Lat, lat, "%v", p)
		assert.Equal(t, p.Lon, lon, "%v", p)
	}
}

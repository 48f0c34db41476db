package coordsys

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLatLon_Identity(t *testing.T) {
	for _, s := range Systems() {
		lat, lon, err := ConvertLatLon(39.9, 116.4, s, s)
		require.NoError(t, err)
		assert.Equal(t, 39.9, lat)
		assert.Equal(t, 116.4, lon)
	}
}

func TestConvertLatLon_Composition(t *testing.T) {
	lat, lon, err := ConvertLatLon(39.99837, 116.3203, WGS84, BD09)
	require.NoError(t, err)
	wantLat, wantLon := GCJ02ToBD09(WGS84ToGCJ02(39.99837, 116.3203))
	assert.Equal(t, wantLat, lat)
	assert.Equal(t, wantLon, lon)

	lat, lon, err = ConvertLatLon(39.90851, 116.43351, BD09, WGS84)
	require.NoError(t, err)
	wantLat, wantLon = GCJ02ToWGS84(BD09ToGCJ02(39.90851, 116.43351))
	assert.Equal(t, wantLat, lat)
	assert.Equal(t, wantLon, lon)
}

func TestConvertLatLon_AllPairsRoundTrip(t *testing.T) {
	for _, from := range Systems() {
		for _, to := range Systems() {
			lat, lon, err := ConvertLatLon(31.2304, 121.4737, from, to)
			require.NoError(t, err)
			bLat, bLon, err := ConvertLatLon(lat, lon, to, from)
			require.NoError(t, err)
			assert.InDelta(t, 31.2304, bLat, 1e-5, "%s->%s", from, to)
			assert.InDelta(t, 121.4737, bLon, 1e-5, "%s->%s", from, to)
		}
	}
}

func TestConvertLatLon_Errors(t *testing.T) {
	_, _, err := ConvertLatLon(39.9, 116.4, Unknown, GCJ02)
	assert.ErrorIs(t, err, ErrConfig)

	_, _, err = ConvertLatLon(39.9, 116.4, WGS84, System(42))
	assert.ErrorIs(t, err, ErrConfig)

	_, _, err = ConvertLatLon(91, 116.4, WGS84, GCJ02)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = ConvertLatLon(39.9, -180.5, WGS84, GCJ02)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "lon", ve.Field)
	assert.Equal(t, -1, ve.Index)

	_, _, err = ConvertLatLon(math.NaN(), 116.4, WGS84, GCJ02)
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = ConvertLatLon(39.9, math.Inf(1), WGS84, GCJ02)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConvertPoint(t *testing.T) {
	p, err := NewPoint(39.90851, 116.43351, BD09)
	require.NoError(t, err)
	g, err := p.To(GCJ02)
	require.NoError(t, err)
	assert.Equal(t, GCJ02, g.System())
	assert.InDelta(t, 39.90245, g.Lat(), 1e-4)
	assert.InDelta(t, 116.42703, g.Lon(), 1e-4)
	// 原点不变
	assert.Equal(t, 39.90851, p.Lat())
	assert.Equal(t, BD09, p.System())

	_, err = Convert(Point{}, WGS84)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewPoint(100, 0, WGS84)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewPoint(0, 0, Unknown)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestConvertBatch(t *testing.T) {
	in := []LatLon{{39.99837, 116.3203}, {39.98565, 116.2998}}
	out, err := ConvertBatch(in, WGS84, GCJ02)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i, p := range in {
		lat, lon := WGS84ToGCJ02(p.Lat, p.Lon)
		assert.Equal(t, LatLon{Lat: lat, Lon: lon}, out[i])
	}
}

func TestConvertBatch_ParallelPreservesOrder(t *testing.T) {
	in := make([]LatLon, 10000)
	for i := range in {
		in[i] = LatLon{Lat: 20 + float64(i%300)*0.1, Lon: 100 + float64(i%250)*0.1}
	}
	seq, err := ConvertBatch(in, WGS84, BD09, WithWorkers(1))
	require.NoError(t, err)
	par, err := ConvertBatch(in, WGS84, BD09, WithWorkers(8), WithChunkSize(97))
	require.NoError(t, err)
	assert.Equal(t, seq, par)
	for _, i := range []int{0, 96, 97, 5000, 9999} {
		lat, lon, err := ConvertLatLon(in[i].Lat, in[i].Lon, WGS84, BD09)
		require.NoError(t, err)
		assert.Equal(t, LatLon{Lat: lat, Lon: lon}, par[i])
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	out, err := ConvertBatch(nil, GCJ02, BD09)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConvertBatch_RejectsBeforeConverting(t *testing.T) {
	in := []LatLon{{39.9, 116.4}, {39.9, 116.4}, {-95, 10}}
	out, err := ConvertBatch(in, WGS84, GCJ02)
	assert.Nil(t, out)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Index)
	assert.Equal(t, "lat", ve.Field)

	_, err = ConvertBatch(in[:1], WGS84, Unknown)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestConvertPairs(t *testing.T) {
	lats, lons, err := ConvertPairs([]float64{39.99837, 39.98565}, []float64{116.3203, 116.2998}, WGS84, GCJ02)
	require.NoError(t, err)
	require.Len(t, lats, 2)
	require.Len(t, lons, 2)
	lat, lon := WGS84ToGCJ02(39.98565, 116.2998)
	assert.Equal(t, lat, lats[1])
	assert.Equal(t, lon, lons[1])

	_, _, err = ConvertPairs([]float64{1, 2}, []float64{1}, WGS84, GCJ02)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConvert_ResultStaysInRange(t *testing.T) {
	lat, lon, err := ConvertLatLon(-90, -180, BD09, GCJ02)
	require.NoError(t, err)
	assert.Equal(t, -90.0, lat)
	assert.GreaterOrEqual(t, lon, -180.0)
	assert.LessOrEqual(t, lon, 180.0)
	// 结果可以再次作为输入
	_, _, err = ConvertLatLon(lat, lon, GCJ02, BD09)
	require.NoError(t, err)

	p, err := NewPoint(-90, -180, BD09)
	require.NoError(t, err)
	w, err := p.To(WGS84)
	require.NoError(t, err)
	_, err = NewPoint(w.Lat(), w.Lon(), WGS84)
	require.NoError(t, err)

	out, err := ConvertBatch([]LatLon{{90, 180}, {-90, -180}, {39.9, 116.4}}, BD09, GCJ02)
	require.NoError(t, err)
	for _, q := range out {
		_, err := NewPoint(q.Lat, q.Lon, GCJ02)
		assert.NoError(t, err, "%v", q)
	}
	wantLat, wantLon := BD09ToGCJ02(39.9, 116.4)
	assert.Equal(t, LatLon{Lat: wantLat, Lon: wantLon}, out[2])
}

func TestPoint_LatLon(t *testing.T) {
	p, err := NewPoint(31.2304, 121.4737, WGS84)
	require.NoError(t, err)
	g, err := p.To(GCJ02)
	require.NoError(t, err)
	wantLat, wantLon := WGS84ToGCJ02(31.2304, 121.4737)
	assert.Equal(t, LatLon{Lat: wantLat, Lon: wantLon}, g.LatLon())
	assert.Equal(t, LatLon{Lat: 31.2304, Lon: 121.4737}, p.LatLon())
}

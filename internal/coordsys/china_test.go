package coordsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutOfChina(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"below latitude envelope", 0.8, 100, true},
		{"well inside", 30, 110, false},
		{"beijing", 39.9042, 116.4074, false},
		{"tokyo east of envelope", 35.6895, 139.6917, true},
		{"london", 51.5074, -0.1278, true},
		{"north of envelope", 56, 100, true},
		{"west of envelope", 40, 72.0, true},
		{"min corner inclusive", chinaMinLat, chinaMinLon, false},
		{"max corner inclusive", chinaMaxLat, chinaMaxLon, false},
		{"origin", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutOfChina(tt.lat, tt.lon))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, InsideChina, Classify(30, 110))
	assert.Equal(t, OutsideChina, Classify(0.8, 100))
	assert.Equal(t, "inside_china", InsideChina.String())
	assert.Equal(t, "outside_china", OutsideChina.String())
}

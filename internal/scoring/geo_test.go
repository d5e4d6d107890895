package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	testCases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		expected               float64
		delta                  float64
	}{
		{
			name: "Same point",
			lat1: 31.2304, lng1: 121.4737,
			lat2: 31.2304, lng2: 121.4737,
			expected: 0, delta: 0.01,
		},
		{
			name: "Shanghai to Beijing",
			lat1: 31.2304, lng1: 121.4737,
			lat2: 39.9042, lng2: 116.4074,
			expected: 1067, delta: 5,
		},
		{
			name: "Shanghai to Suzhou",
			lat1: 31.2304, lng1: 121.4737,
			lat2: 31.2990, lng2: 120.5853,
			expected: 85, delta: 2,
		},
		{
			name: "Across the antimeridian",
			lat1: 0, lng1: 179.5,
			lat2: 0, lng2: -179.5,
			expected: 111.19, delta: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Distance(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			assert.InDelta(t, tc.expected, got, tc.delta)
		})
	}
}

func TestDistance_Rounding(t *testing.T) {
	got := Distance(31.2304, 121.4737, 31.2990, 120.5853)
	assert.InDelta(t, math.Round(got*100), got*100, 1e-9, "distance should carry at most two decimals")
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaceAndSpeed(t *testing.T) {
	cases := []struct {
		distance, duration float64
	}{
		{5, 25},
		{20, 60},
		{0.4, 1.7},
		{42.195, 181.3},
	}
	for _, tc := range cases {
		require.InDelta(t, tc.duration/tc.distance, Pace(tc.distance, tc.duration), 1e-12)
		require.InDelta(t, tc.distance/(tc.duration/60), Speed(tc.distance, tc.duration), 1e-12)
	}
	require.InDelta(t, 5.0, Pace(5, 25), 1e-12)
	require.InDelta(t, 20.0, Speed(20, 60), 1e-12)
}

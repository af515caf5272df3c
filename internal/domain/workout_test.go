package domain

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedFactory(at time.Time) *Factory {
	seq := 0
	return &Factory{
		now: func() time.Time { return at },
		newID: func() string {
			seq++
			return fmt.Sprintf("w-%d", seq)
		},
	}
}

func TestCreateRunning(t *testing.T) {
	at := time.Date(2026, time.October, 19, 8, 30, 0, 0, time.UTC)
	w, err := fixedFactory(at).Create(CreateInput{
		Type:         TypeRunning,
		Coordinates:  Coordinates{Latitude: 10, Longitude: 20},
		Measurements: Measurements{Distance: 5, Duration: 25, Variant: 150},
	})
	require.NoError(t, err)

	require.Equal(t, "w-1", w.ID)
	require.Equal(t, at, w.CreatedAt)
	require.Equal(t, TypeRunning, w.Type)
	require.NotNil(t, w.Running)
	require.Nil(t, w.Cycling)
	require.InDelta(t, 5.0, w.Running.Pace, 1e-9)
	require.Equal(t, 150.0, w.Running.Cadence)
	require.Contains(t, w.Description, "Running")
	require.Equal(t, "🏃🏻‍♂️ Running on October 19", w.Description)
	require.Zero(t, w.Clicks)
}

func TestCreateCycling(t *testing.T) {
	w, err := NewFactory().Create(CreateInput{
		Type:         TypeCycling,
		Coordinates:  Coordinates{Latitude: 10, Longitude: 20},
		Measurements: Measurements{Distance: 20, Duration: 60, Variant: 100},
	})
	require.NoError(t, err)

	require.NotNil(t, w.Cycling)
	require.Nil(t, w.Running)
	require.InDelta(t, 20.0, w.Cycling.Speed, 1e-9)
	require.Equal(t, 100.0, w.Cycling.ElevationGain)
	require.Contains(t, w.Description, "Cycling")

	metric, unit := w.Metric()
	require.InDelta(t, 20.0, metric, 1e-9)
	require.Equal(t, "km/h", unit)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	valid := CreateInput{
		Type:         TypeRunning,
		Coordinates:  Coordinates{Latitude: 10, Longitude: 20},
		Measurements: Measurements{Distance: 5, Duration: 25, Variant: 150},
	}
	mutate := map[string]func(*CreateInput){
		"negative distance": func(in *CreateInput) { in.Distance = -1 },
		"zero duration":     func(in *CreateInput) { in.Duration = 0 },
		"nan cadence":       func(in *CreateInput) { in.Variant = math.NaN() },
		"infinite distance": func(in *CreateInput) { in.Distance = math.Inf(1) },
		"unknown type":      func(in *CreateInput) { in.Type = "swimming" },
		"latitude range":    func(in *CreateInput) { in.Coordinates.Latitude = 91 },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			in := valid
			fn(&in)
			_, err := NewFactory().Create(in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestFactoryIDsAreUniqueUnderRapidCreation(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]struct{})
	for i := 0; i < 5000; i++ {
		w, err := f.Create(CreateInput{
			Type:         TypeCycling,
			Measurements: Measurements{Distance: 1, Duration: 1, Variant: 1},
		})
		require.NoError(t, err)
		_, dup := seen[w.ID]
		require.False(t, dup, "duplicate id %s", w.ID)
		seen[w.ID] = struct{}{}
	}
}

func TestParseInput(t *testing.T) {
	in, err := ParseInput(RawInput{Type: "cycling", Distance: " 20 ", Duration: "60", ElevationGain: "100", Cadence: "junk"}, Coordinates{Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	require.Equal(t, TypeCycling, in.Type)
	require.Equal(t, Measurements{Distance: 20, Duration: 60, Variant: 100}, in.Measurements)
	require.Equal(t, Coordinates{Latitude: 1, Longitude: 2}, in.Coordinates)

	bad := []RawInput{
		{Type: "running", Distance: "abc", Duration: "10", Cadence: "150"},
		{Type: "running", Distance: "5", Duration: "", Cadence: "150"},
		{Type: "running", Distance: "5", Duration: "10", Cadence: "Inf"},
		{Type: "running", Distance: "-1", Duration: "10", Cadence: "150"},
		{Type: "cycling", Distance: "5", Duration: "10", ElevationGain: "NaN"},
		{Type: "", Distance: "5", Duration: "10", Cadence: "150"},
	}
	for _, raw := range bad {
		_, err := ParseInput(raw, Coordinates{})
		require.ErrorIs(t, err, ErrInvalidInput, "%+v", raw)
	}
}

package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/persistence/memory"
)

type failingBlobs struct {
	err error
}

func (f failingBlobs) SetItem(context.Context, string, []byte) error { return f.err }
func (f failingBlobs) GetItem(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.err
}
func (f failingBlobs) RemoveItem(context.Context, string) error { return f.err }

func sampleWorkouts() []domain.Workout {
	at := time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)
	run := domain.Workout{
		ID:          "run-1",
		CreatedAt:   at,
		Coordinates: domain.Coordinates{Latitude: 51.5, Longitude: -0.1},
		Distance:    5,
		Duration:    25,
		Type:        domain.TypeRunning,
		Description: domain.Describe(domain.TypeRunning, at),
		Running:     &domain.Running{Cadence: 170},
	}
	ride := domain.Workout{
		ID:          "ride-1",
		CreatedAt:   at.Add(time.Hour),
		Coordinates: domain.Coordinates{Latitude: 48.85, Longitude: 2.35},
		Distance:    20,
		Duration:    60,
		Type:        domain.TypeCycling,
		Description: domain.Describe(domain.TypeCycling, at.Add(time.Hour)),
		Clicks:      2,
		Cycling:     &domain.Cycling{ElevationGain: 300},
	}
	return []domain.Workout{run.Recompute(), ride.Recompute()}
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(memory.NewBlobStore(), "")

	want := sampleWorkouts()
	require.NoError(t, gw.Save(ctx, want))

	got, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.InDelta(t, 5.0, got[0].Running.Pace, 1e-9)
	require.InDelta(t, 20.0, got[1].Cycling.Speed, 1e-9)
}

func TestGatewayLoadMissingIsEmpty(t *testing.T) {
	gw := NewGateway(memory.NewBlobStore(), DefaultKey)

	got, err := gw.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGatewaySaveEmptyAfterDeleteAll(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(memory.NewBlobStore(), "")

	require.NoError(t, gw.Save(ctx, sampleWorkouts()))
	require.NoError(t, gw.Save(ctx, nil))

	got, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGatewayLoadMalformed(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewBlobStore()
	gw := NewGateway(blobs, "")

	cases := map[string]string{
		"not json":        `{"id":`,
		"unknown type":    `[{"id":"a","type":"swimming","distance":1,"duration":1}]`,
		"missing id":      `[{"type":"running","distance":1,"duration":1,"cadence":1}]`,
		"zero distance":   `[{"id":"a","type":"running","distance":0,"duration":1,"cadence":1}]`,
		"object not list": `{"id":"a"}`,
	}
	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, blobs.SetItem(ctx, DefaultKey, []byte(blob)))
			_, err := gw.Load(ctx)
			require.ErrorIs(t, err, domain.ErrCorruptState)
		})
	}
}

func TestDecodeAcceptsLegacyElevationKey(t *testing.T) {
	blob := []byte(`[{"id":"r","date":"2026-03-04T09:30:00Z","clicks":0,"coordinates":[48.85,2.35],
		"distance":30,"duration":90,"type":"cycling","description":"Cycling on March 4","elevation":250,"speed":1}]`)

	got, err := Decode(blob)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 250.0, got[0].Cycling.ElevationGain)
	require.InDelta(t, 20.0, got[0].Cycling.Speed, 1e-9)
	require.Equal(t, "Cycling on March 4", got[0].Description)
}

func TestEncodeUsesFlatLayout(t *testing.T) {
	blob, err := Encode(sampleWorkouts()[:1])
	require.NoError(t, err)
	require.Contains(t, string(blob), `"coordinates":[51.5,-0.1]`)
	require.Contains(t, string(blob), `"cadence":170`)
	require.NotContains(t, string(blob), `"elevationGain"`)
}

func TestEncodeWritesBothElevationKeys(t *testing.T) {
	blob, err := Encode(sampleWorkouts()[1:])
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(blob, &records))
	require.Len(t, records, 1)
	require.Equal(t, 300.0, records[0]["elevationGain"])
	require.Equal(t, 300.0, records[0]["elevation"])
	require.NotContains(t, records[0], "cadence")

	got, err := Decode(blob)
	require.NoError(t, err)
	require.Equal(t, 300.0, got[0].Cycling.ElevationGain)
}

func TestGatewayPropagatesBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	gw := NewGateway(failingBlobs{err: boom}, "")

	require.ErrorIs(t, gw.Save(ctx, sampleWorkouts()), boom)
	_, err := gw.Load(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, gw.Reset(ctx), boom)
}

func TestCursorRoundTrip(t *testing.T) {
	c := &domain.Cursor{CreatedAt: time.Date(2026, time.March, 4, 9, 30, 0, 5, time.UTC), ID: "run-1"}

	decoded, err := DecodeCursor(EncodeCursor(c))
	require.NoError(t, err)
	require.Equal(t, c, decoded)

	empty, err := DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, empty)

	_, err = DecodeCursor("not-base64!")
	require.Error(t, err)
}

// Package persistence snapshots the workout store into a key-value blob store.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/observability"
)

// DefaultKey is the blob key the collection is stored under.
const DefaultKey = "workouts"

// BlobStore is the key-value backend. GetItem reports found=false for absent keys.
type BlobStore interface {
	SetItem(ctx context.Context, key string, blob []byte) error
	GetItem(ctx context.Context, key string) ([]byte, bool, error)
	RemoveItem(ctx context.Context, key string) error
}

// Gateway serialises the full ordered collection to a single blob.
type Gateway struct {
	blobs BlobStore
	key   string
	now   func() time.Time
}

// NewGateway constructs a Gateway. An empty key selects DefaultKey.
func NewGateway(blobs BlobStore, key string) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	return &Gateway{blobs: blobs, key: key, now: time.Now}
}

// Save overwrites the stored blob with workouts.
func (g *Gateway) Save(ctx context.Context, workouts []domain.Workout) error {
	blob, err := Encode(workouts)
	if err != nil {
		return err
	}
	if err := g.blobs.SetItem(ctx, g.key, blob); err != nil {
		return fmt.Errorf("write %q: %w", g.key, err)
	}
	observability.RecordSnapshotSaved(g.now(), len(blob))
	return nil
}

// Load restores the stored collection. A missing blob yields an empty
// collection; an unreadable one yields domain.ErrCorruptState.
func (g *Gateway) Load(ctx context.Context) ([]domain.Workout, error) {
	blob, found, err := g.blobs.GetItem(ctx, g.key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", g.key, err)
	}
	if !found {
		return nil, nil
	}
	workouts, err := Decode(blob)
	if err != nil {
		observability.RecordCorruptSnapshot()
		return nil, err
	}
	return workouts, nil
}

// Reset removes the stored blob.
func (g *Gateway) Reset(ctx context.Context) error {
	if err := g.blobs.RemoveItem(ctx, g.key); err != nil {
		return fmt.Errorf("remove %q: %w", g.key, err)
	}
	return nil
}

// record is the flat persisted layout of one workout.
type record struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	Clicks        int        `json:"clicks"`
	Coordinates   [2]float64 `json:"coordinates"`
	Distance      float64    `json:"distance"`
	Duration      float64    `json:"duration"`
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	Cadence       *float64   `json:"cadence,omitempty"`
	Pace          *float64   `json:"pace,omitempty"`
	ElevationGain *float64   `json:"elevationGain,omitempty"`
	Elevation     *float64   `json:"elevation,omitempty"`
	Speed         *float64   `json:"speed,omitempty"`
}

// Encode renders workouts in the persisted layout.
func Encode(workouts []domain.Workout) ([]byte, error) {
	records := make([]record, 0, len(workouts))
	for _, w := range workouts {
		rec := record{
			ID:          w.ID,
			Date:        w.CreatedAt,
			Clicks:      w.Clicks,
			Coordinates: [2]float64{w.Coordinates.Latitude, w.Coordinates.Longitude},
			Distance:    w.Distance,
			Duration:    w.Duration,
			Type:        string(w.Type),
			Description: w.Description,
		}
		switch w.Type {
		case domain.TypeRunning:
			if w.Running != nil {
				rec.Cadence = float64Ptr(w.Running.Cadence)
				rec.Pace = float64Ptr(w.Running.Pace)
			}
		case domain.TypeCycling:
			if w.Cycling != nil {
				rec.ElevationGain = float64Ptr(w.Cycling.ElevationGain)
				// browser builds read the gain from the legacy key
				rec.Elevation = float64Ptr(w.Cycling.ElevationGain)
				rec.Speed = float64Ptr(w.Cycling.Speed)
			}
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// Decode parses a persisted blob. Derived metrics are recomputed rather than
// trusted.
func Decode(blob []byte) ([]domain.Workout, error) {
	var records []record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}

	workouts := make([]domain.Workout, 0, len(records))
	for i, rec := range records {
		t, err := domain.ParseType(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", domain.ErrCorruptState, i, err)
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", domain.ErrCorruptState, i)
		}
		if rec.Distance <= 0 || rec.Duration <= 0 {
			return nil, fmt.Errorf("%w: record %d has non-positive distance or duration", domain.ErrCorruptState, i)
		}

		w := domain.Workout{
			ID:          rec.ID,
			CreatedAt:   rec.Date,
			Clicks:      rec.Clicks,
			Coordinates: domain.Coordinates{Latitude: rec.Coordinates[0], Longitude: rec.Coordinates[1]},
			Distance:    rec.Distance,
			Duration:    rec.Duration,
			Type:        t,
			Description: rec.Description,
		}
		switch t {
		case domain.TypeRunning:
			w.Running = &domain.Running{Cadence: deref(rec.Cadence)}
		case domain.TypeCycling:
			gain := rec.ElevationGain
			if gain == nil {
				gain = rec.Elevation
			}
			w.Cycling = &domain.Cycling{ElevationGain: deref(gain)}
		}
		if w.Description == "" {
			w.Description = domain.Describe(t, w.CreatedAt)
		}
		workouts = append(workouts, w.Recompute())
	}
	return workouts, nil
}

func float64Ptr(v float64) *float64 {
	return &v
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

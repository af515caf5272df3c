// Package domain defines the workout model, the in-memory store and the
// controller that keeps the store, its persisted snapshot and the rendered
// views consistent.
package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Type discriminates workout variants.
type Type string

const (
	TypeRunning Type = "running"
	TypeCycling Type = "cycling"
)

// ParseType validates a raw workout type.
func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeRunning, TypeCycling:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown workout type %q", ErrInvalidInput, raw)
	}
}

// Icon returns the emoji used for the type in titles and list items.
func (t Type) Icon() string {
	if t == TypeRunning {
		return "🏃🏻‍♂️"
	}
	return "🚴🏻‍♂️"
}

// Label returns the capitalised type name.
func (t Type) Label() string {
	if t == TypeRunning {
		return "Running"
	}
	return "Cycling"
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) validate() error {
	if !finite(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidInput)
	}
	if !finite(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidInput)
	}
	return nil
}

// Running holds the running-only fields.
type Running struct {
	Cadence float64 `json:"cadence"` // steps/min
	Pace    float64 `json:"pace"`    // min/km
}

// Cycling holds the cycling-only fields.
type Cycling struct {
	ElevationGain float64 `json:"elevation_gain"` // m
	Speed         float64 `json:"speed"`          // km/h
}

// Workout is one logged activity. Exactly one of Running or Cycling is set and
// it always matches Type.
type Workout struct {
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Coordinates Coordinates `json:"coordinates"`
	Distance    float64     `json:"distance"` // km
	Duration    float64     `json:"duration"` // min
	Type        Type        `json:"type"`
	Description string      `json:"description"`
	Clicks      int         `json:"clicks"`
	Running     *Running    `json:"running,omitempty"`
	Cycling     *Cycling    `json:"cycling,omitempty"`
}

// VariantValue returns cadence for runs and elevation gain for rides.
func (w Workout) VariantValue() float64 {
	switch w.Type {
	case TypeRunning:
		if w.Running != nil {
			return w.Running.Cadence
		}
	case TypeCycling:
		if w.Cycling != nil {
			return w.Cycling.ElevationGain
		}
	}
	return 0
}

// Metric returns the derived performance metric and its unit.
func (w Workout) Metric() (float64, string) {
	switch w.Type {
	case TypeRunning:
		if w.Running != nil {
			return w.Running.Pace, "min/km"
		}
		return 0, "min/km"
	default:
		if w.Cycling != nil {
			return w.Cycling.Speed, "km/h"
		}
		return 0, "km/h"
	}
}

// clone returns a copy that shares no pointers with w.
func (w Workout) clone() Workout {
	if w.Running != nil {
		r := *w.Running
		w.Running = &r
	}
	if w.Cycling != nil {
		c := *w.Cycling
		w.Cycling = &c
	}
	return w
}

// withMeasurements returns w with new distance, duration and variant field and
// the derived metric recomputed.
func (w Workout) withMeasurements(distance, duration, variant float64) Workout {
	w.Distance = distance
	w.Duration = duration
	switch w.Type {
	case TypeRunning:
		w.Running = &Running{Cadence: variant, Pace: Pace(distance, duration)}
		w.Cycling = nil
	case TypeCycling:
		w.Cycling = &Cycling{ElevationGain: variant, Speed: Speed(distance, duration)}
		w.Running = nil
	}
	return w
}

// Recompute refreshes the derived metric from distance and duration.
func (w Workout) Recompute() Workout {
	return w.withMeasurements(w.Distance, w.Duration, w.VariantValue())
}

// Measurements are the editable numeric fields of a workout.
type Measurements struct {
	Distance float64
	Duration float64
	// Variant is cadence for runs and elevation gain for rides.
	Variant float64
}

// Validate reports ErrInvalidInput unless every field is a finite positive number.
func (m Measurements) Validate() error {
	if !positive(m.Distance) {
		return fmt.Errorf("%w: distance must be a positive number", ErrInvalidInput)
	}
	if !positive(m.Duration) {
		return fmt.Errorf("%w: duration must be a positive number", ErrInvalidInput)
	}
	if !positive(m.Variant) {
		return fmt.Errorf("%w: cadence or elevation gain must be a positive number", ErrInvalidInput)
	}
	return nil
}

// CreateInput carries a validated-on-create new workout submission.
type CreateInput struct {
	Type        Type
	Coordinates Coordinates
	Measurements
}

// Factory builds workouts. The zero value is not usable; use NewFactory.
type Factory struct {
	now   func() time.Time
	newID func() string
}

// NewFactory returns a Factory stamping records with the wall clock and UUIDv7 ids.
func NewFactory() *Factory {
	return &Factory{
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// Create validates the input and constructs a workout with derived fields.
func (f *Factory) Create(in CreateInput) (Workout, error) {
	if _, err := ParseType(string(in.Type)); err != nil {
		return Workout{}, err
	}
	if err := in.Coordinates.validate(); err != nil {
		return Workout{}, err
	}
	if err := in.Measurements.Validate(); err != nil {
		return Workout{}, err
	}

	createdAt := f.now()
	w := Workout{
		ID:          f.newID(),
		CreatedAt:   createdAt,
		Coordinates: in.Coordinates,
		Type:        in.Type,
		Description: Describe(in.Type, createdAt),
	}
	return w.withMeasurements(in.Distance, in.Duration, in.Variant), nil
}

// Describe builds the human readable title, e.g. "🏃🏻‍♂️ Running on October 19".
func Describe(t Type, at time.Time) string {
	return fmt.Sprintf("%s %s on %s", t.Icon(), t.Label(), at.Format("January 2"))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

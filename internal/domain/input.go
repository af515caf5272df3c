package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RawInput is the untyped form submission. Only the field matching Type is
// read for the variant value.
type RawInput struct {
	Type          string `json:"type"`
	Distance      string `json:"distance"`
	Duration      string `json:"duration"`
	Cadence       string `json:"cadence"`
	ElevationGain string `json:"elevation_gain"`
}

// ParseMeasurements converts raw numeric fields for the given type.
func ParseMeasurements(t Type, raw RawInput) (Measurements, error) {
	distance, err := parseNumber("distance", raw.Distance)
	if err != nil {
		return Measurements{}, err
	}
	duration, err := parseNumber("duration", raw.Duration)
	if err != nil {
		return Measurements{}, err
	}

	field, value := "cadence", raw.Cadence
	if t == TypeCycling {
		field, value = "elevation_gain", raw.ElevationGain
	}
	variant, err := parseNumber(field, value)
	if err != nil {
		return Measurements{}, err
	}

	m := Measurements{Distance: distance, Duration: duration, Variant: variant}
	if err := m.Validate(); err != nil {
		return Measurements{}, err
	}
	return m, nil
}

// ParseInput converts a raw submission made at the clicked coordinates.
func ParseInput(raw RawInput, at Coordinates) (CreateInput, error) {
	t, err := ParseType(strings.TrimSpace(raw.Type))
	if err != nil {
		return CreateInput{}, err
	}
	m, err := ParseMeasurements(t, raw)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{Type: t, Coordinates: at, Measurements: m}, nil
}

func parseNumber(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, field)
	}
	return v, nil
}

// Package export renders workouts for other tools.
package export

import (
	"fmt"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"example.com/workoutmap/internal/domain"
)

// Creator is written into the GPX header.
const Creator = "workoutmap"

// GPX renders every workout as a waypoint at its logged position.
func GPX(workouts []domain.Workout) ([]byte, error) {
	doc := gpx.GPX{
		Creator: Creator,
		Name:    "Workouts",
	}
	for _, w := range workouts {
		doc.Waypoints = append(doc.Waypoints, gpx.GPXPoint{
			Point: gpx.Point{
				Latitude:  w.Coordinates.Latitude,
				Longitude: w.Coordinates.Longitude,
			},
			Timestamp:   w.CreatedAt.UTC(),
			Name:        w.Description,
			Comment:     w.ID,
			Description: Summary(w),
			Type:        string(w.Type),
		})
	}
	return doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}

// Summary is a one-line rendering of the workout measurements.
func Summary(w domain.Workout) string {
	metric, unit := w.Metric()
	parts := []string{
		fmt.Sprintf("%g km", w.Distance),
		fmt.Sprintf("%g min", w.Duration),
		fmt.Sprintf("%.1f %s", metric, unit),
	}
	switch w.Type {
	case domain.TypeRunning:
		parts = append(parts, fmt.Sprintf("%g spm", w.VariantValue()))
	case domain.TypeCycling:
		parts = append(parts, fmt.Sprintf("%g m", w.VariantValue()))
	}
	return strings.Join(parts, ", ")
}

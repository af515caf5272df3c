// Package view turns store events into rendering instructions for the workout
// list and the map, and holds an in-memory rendering of both.
package view

import (
	"strconv"

	"example.com/workoutmap/internal/domain"
)

// Kind names a rendering instruction.
type Kind string

const (
	KindMarkerAdd   Kind = "marker.add"
	KindMarkerClear Kind = "marker.clear"
	KindListAppend  Kind = "list.append"
	KindListRemove  Kind = "list.remove"
	KindListClear   Kind = "list.clear"
	KindMapSetView  Kind = "map.set_view"
)

// Instruction is one step for a renderer. Exactly the payload matching Kind is set.
type Instruction struct {
	Kind      Kind      `json:"kind"`
	WorkoutID string    `json:"workout_id,omitempty"`
	Item      *ListItem `json:"item,omitempty"`
	Marker    *Marker   `json:"marker,omitempty"`
	View      *MapView  `json:"view,omitempty"`
}

// IsMap reports whether the instruction targets the map surface.
func (in Instruction) IsMap() bool {
	switch in.Kind {
	case KindMarkerAdd, KindMarkerClear, KindMapSetView:
		return true
	}
	return false
}

// Detail is one icon/value/unit row of a list item.
type Detail struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// ListItem is a rendered workout entry.
type ListItem struct {
	WorkoutID string      `json:"workout_id"`
	Type      domain.Type `json:"type"`
	Title     string      `json:"title"`
	Details   []Detail    `json:"details"`
}

// Marker is a map pin with an always-open popup.
type Marker struct {
	WorkoutID    string             `json:"workout_id"`
	Coordinates  domain.Coordinates `json:"coordinates"`
	Popup        string             `json:"popup"`
	ClassName    string             `json:"class_name"`
	MaxWidth     int                `json:"max_width"`
	MinWidth     int                `json:"min_width"`
	AutoClose    bool               `json:"auto_close"`
	CloseOnClick bool               `json:"close_on_click"`
}

// MapView is a map centre and zoom level.
type MapView struct {
	Center domain.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
}

// NewListItem renders w as a list entry.
func NewListItem(w domain.Workout) ListItem {
	details := []Detail{
		{Icon: w.Type.Icon(), Value: formatNumber(w.Distance), Unit: "km"},
		{Icon: "⏱", Value: formatNumber(w.Duration), Unit: "min"},
	}
	metric, unit := w.Metric()
	switch w.Type {
	case domain.TypeRunning:
		details = append(details,
			Detail{Icon: "⚡️", Value: strconv.FormatFloat(metric, 'f', 1, 64), Unit: unit},
			Detail{Icon: "🦶🏼", Value: formatNumber(w.VariantValue()), Unit: "spm"},
		)
	case domain.TypeCycling:
		details = append(details,
			Detail{Icon: "⚡️", Value: strconv.FormatFloat(metric, 'f', 1, 64), Unit: unit},
			Detail{Icon: "⛰", Value: formatNumber(w.VariantValue()), Unit: "m"},
		)
	}
	return ListItem{WorkoutID: w.ID, Type: w.Type, Title: w.Description, Details: details}
}

// NewMarker renders w as a map pin.
func NewMarker(w domain.Workout) Marker {
	return Marker{
		WorkoutID:   w.ID,
		Coordinates: w.Coordinates,
		Popup:       w.Description,
		ClassName:   string(w.Type) + "-popup",
		MaxWidth:    250,
		MinWidth:    100,
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

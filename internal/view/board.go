package view

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// State is a point-in-time copy of a Board.
type State struct {
	Items   []ListItem `json:"items"`
	Markers []Marker   `json:"markers"`
	View    *MapView   `json:"view,omitempty"`
}

// Board is an in-memory rendering of the list and the map. New list items are
// shown first, as they are inserted right below the entry form.
type Board struct {
	mu      sync.RWMutex
	items   []ListItem
	markers []Marker
	view    *MapView
}

// NewBoard constructs an empty board.
func NewBoard() *Board {
	return &Board{}
}

var _ Sink = (*Board)(nil)

// Emit applies the instruction.
func (b *Board) Emit(_ context.Context, in Instruction) error {
	return b.Apply(in)
}

// Apply mutates the board according to in.
func (b *Board) Apply(in Instruction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch in.Kind {
	case KindListAppend:
		if in.Item == nil {
			return fmt.Errorf("%s without item", in.Kind)
		}
		b.items = slices.Insert(b.items, 0, cloneItem(*in.Item))
	case KindListRemove:
		b.items = slices.DeleteFunc(b.items, func(item ListItem) bool {
			return item.WorkoutID == in.WorkoutID
		})
	case KindListClear:
		b.items = nil
	case KindMarkerAdd:
		if in.Marker == nil {
			return fmt.Errorf("%s without marker", in.Kind)
		}
		b.markers = append(b.markers, *in.Marker)
	case KindMarkerClear:
		b.markers = nil
	case KindMapSetView:
		if in.View == nil {
			return fmt.Errorf("%s without view", in.Kind)
		}
		v := *in.View
		b.view = &v
	default:
		return fmt.Errorf("unknown instruction kind %q", in.Kind)
	}
	return nil
}

// Snapshot copies the current state.
func (b *Board) Snapshot() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	state := State{
		Items:   make([]ListItem, 0, len(b.items)),
		Markers: slices.Clone(b.markers),
	}
	if state.Markers == nil {
		state.Markers = []Marker{}
	}
	for _, item := range b.items {
		state.Items = append(state.Items, cloneItem(item))
	}
	if b.view != nil {
		v := *b.view
		state.View = &v
	}
	return state
}

func cloneItem(item ListItem) ListItem {
	item.Details = slices.Clone(item.Details)
	return item
}

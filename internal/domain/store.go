package domain

import (
	"fmt"
	"time"
)

// Store is the ordered in-memory collection of workouts, in creation order.
// It is not safe for concurrent use; Service serialises access.
type Store struct {
	workouts []Workout
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len reports the number of workouts held.
func (s *Store) Len() int {
	return len(s.workouts)
}

// All returns a copy of every workout in order.
func (s *Store) All() []Workout {
	out := make([]Workout, len(s.workouts))
	for i, w := range s.workouts {
		out[i] = w.clone()
	}
	return out
}

// Add appends w. Id uniqueness is guaranteed by Factory.
func (s *Store) Add(w Workout) {
	s.workouts = append(s.workouts, w.clone())
}

// FindByID returns the workout with id, or false when there is none.
func (s *Store) FindByID(id string) (Workout, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Workout{}, false
	}
	return s.workouts[i].clone(), true
}

// Edit replaces the measurements of workout id and recomputes its metric.
// Identity, position, type, description and creation time are kept.
func (s *Store) Edit(id string, m Measurements) (Workout, error) {
	if err := m.Validate(); err != nil {
		return Workout{}, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return Workout{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := s.workouts[i].withMeasurements(m.Distance, m.Duration, m.Variant)
	s.workouts[i] = updated
	return updated.clone(), nil
}

// Delete removes workout id and reports whether anything was removed.
func (s *Store) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.workouts = append(s.workouts[:i:i], s.workouts[i+1:]...)
	return true
}

// DeleteAll empties the store.
func (s *Store) DeleteAll() {
	s.workouts = nil
}

// ReplaceAll swaps the whole collection for restored records. Records are
// trusted except for id uniqueness; on duplicates the store is left unchanged.
func (s *Store) ReplaceAll(workouts []Workout) error {
	seen := make(map[string]struct{}, len(workouts))
	next := make([]Workout, 0, len(workouts))
	for _, w := range workouts {
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: duplicate workout id %q", ErrCorruptState, w.ID)
		}
		seen[w.ID] = struct{}{}
		next = append(next, w.clone())
	}
	s.workouts = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// Cursor marks the last workout of a page.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Page returns up to limit workouts following after, in creation order, and
// the cursor for the next page when more remain.
func (s *Store) Page(after *Cursor, limit int) ([]Workout, *Cursor) {
	start := 0
	if after != nil {
		if i := s.indexOf(after.ID); i >= 0 {
			start = i + 1
		} else {
			// the cursor workout was deleted; resume at the first one created later
			start = len(s.workouts)
			for i, w := range s.workouts {
				if w.CreatedAt.After(after.CreatedAt) {
					start = i
					break
				}
			}
		}
	}
	if limit <= 0 {
		limit = len(s.workouts)
	}
	end := min(start+limit, len(s.workouts))

	out := make([]Workout, 0, end-start)
	for _, w := range s.workouts[start:end] {
		out = append(out, w.clone())
	}
	var next *Cursor
	if end < len(s.workouts) && len(out) > 0 {
		last := out[len(out)-1]
		next = &Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return out, next
}

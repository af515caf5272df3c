package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"example.com/workoutmap/internal/observability"
)

// Repository captures snapshot persistence of the whole collection.
type Repository interface {
	Save(ctx context.Context, workouts []Workout) error
	Load(ctx context.Context) ([]Workout, error)
}

// Views receives store events and turns them into rendering instructions.
type Views interface {
	OnCreate(ctx context.Context, w Workout)
	OnEdit(ctx context.Context, w Workout)
	OnDelete(ctx context.Context, id string)
	OnDeleteAll(ctx context.Context)
	OnRestore(ctx context.Context, workouts []Workout)
	OnSelect(ctx context.Context, w Workout)
	OnLocate(ctx context.Context, at Coordinates)
	MapReady(ctx context.Context)
}

// Locator resolves the user's current position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithLogger overrides the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFactory overrides how new workouts are stamped.
func WithFactory(f *Factory) Option {
	return func(s *Service) {
		s.factory = f
	}
}

// Service is the application controller and sole owner of the Store. Every
// operation holds mu from mutation through persistence to view emission.
type Service struct {
	mu      sync.Mutex
	store   *Store
	factory *Factory
	repo    Repository
	views   Views
	logger  *zap.Logger
}

// NewService constructs a Service with an empty store.
func NewService(repo Repository, views Views, opts ...Option) *Service {
	s := &Service{
		store:   NewStore(),
		factory: NewFactory(),
		repo:    repo,
		views:   views,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore replaces the store with the persisted snapshot and renders it. On
// any failure the store is left empty and the error is returned for logging.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.DeleteAll()
	workouts, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("discarding unreadable workout history", zap.Error(err))
		return err
	}
	if err := s.store.ReplaceAll(workouts); err != nil {
		s.logger.Warn("discarding unreadable workout history", zap.Error(err))
		return err
	}
	observability.RecordStoreSize(s.store.Len())
	s.logger.Info("restored workouts", zap.Int("count", s.store.Len()))
	s.views.OnRestore(ctx, s.store.All())
	return nil
}

// Locate centres the map on the current position. Failure is informational.
func (s *Service) Locate(ctx context.Context, locator Locator) (Coordinates, error) {
	at, err := locator.CurrentPosition(ctx)
	if err != nil {
		s.logger.Info("could not get current position", zap.Error(err))
		if errors.Is(err, ErrGeolocationUnavailable) {
			return Coordinates{}, err
		}
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.views.OnLocate(ctx, at)
	return at, nil
}

// MapReady signals that the map surface can accept markers.
func (s *Service) MapReady(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views.MapReady(ctx)
}

// Create validates and records a new workout.
func (s *Service) Create(ctx context.Context, in CreateInput) (Workout, error) {
	w, err := s.factory.Create(in)
	if err != nil {
		return Workout{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.store.All()
	s.store.Add(w)
	if err := s.commit(ctx, "create", before); err != nil {
		return Workout{}, err
	}
	s.views.OnCreate(ctx, w)
	return w, nil
}

// Select looks up the workout the user picked and pans the map to it.
func (s *Service) Select(ctx context.Context, id string) (Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.store.FindByID(id)
	if !ok {
		return Workout{}, false
	}
	s.views.OnSelect(ctx, w)
	return w, true
}

// Find returns the workout without touching the views.
func (s *Service) Find(id string) (Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.FindByID(id)
}

// List returns every workout in creation order.
func (s *Service) List() []Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Edit applies new measurements to the selected workout.
func (s *Service) Edit(ctx context.Context, selectedID string, m Measurements) (Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.store.All()
	w, err := s.store.Edit(selectedID, m)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("edit targeted a workout that is not in the store", zap.String("workout_id", selectedID))
		}
		return Workout{}, err
	}
	if err := s.commit(ctx, "edit", before); err != nil {
		return Workout{}, err
	}
	s.views.OnEdit(ctx, w)
	return w, nil
}

// Delete removes the selected workout. Deleting an unknown id changes nothing
// and reports false.
func (s *Service) Delete(ctx context.Context, selectedID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.store.All()
	if !s.store.Delete(selectedID) {
		return false, nil
	}
	if err := s.commit(ctx, "delete", before); err != nil {
		return false, err
	}
	s.views.OnDelete(ctx, selectedID)
	return true, nil
}

// DeleteAll clears the collection, its snapshot and both views.
func (s *Service) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.store.All()
	s.store.DeleteAll()
	if err := s.commit(ctx, "delete_all", before); err != nil {
		return err
	}
	s.views.OnDeleteAll(ctx)
	return nil
}

// commit persists the post-mutation state. When the save fails the store is
// rolled back to before so it never diverges from the snapshot.
func (s *Service) commit(ctx context.Context, op string, before []Workout) error {
	if err := s.repo.Save(ctx, s.store.All()); err != nil {
		if rbErr := s.store.ReplaceAll(before); rbErr != nil {
			s.logger.Error("rollback failed", zap.String("op", op), zap.Error(rbErr))
		}
		observability.RecordMutationFailed(op)
		s.logger.Error("persisting workouts failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("persist workouts after %s: %w", op, err)
	}
	observability.RecordMutation(op)
	observability.RecordStoreSize(s.store.Len())
	return nil
}

// Page lists workouts in creation order with cursor pagination.
func (s *Service) Page(after *Cursor, limit int) ([]Workout, *Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Page(after, limit)
}

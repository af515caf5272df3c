package view

import (
	"context"

	"go.uber.org/zap"

	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/observability"
)

// DefaultZoom is the map zoom used when centring on a position.
const DefaultZoom = 15

// Option configures the Synchronizer.
type Option func(*Synchronizer)

// WithLogger overrides the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithZoom overrides the map zoom level.
func WithZoom(zoom int) Option {
	return func(s *Synchronizer) {
		if zoom > 0 {
			s.zoom = zoom
		}
	}
}

// Synchronizer implements domain.Views. List instructions are emitted
// immediately; marker and map instructions wait for the map to be ready.
type Synchronizer struct {
	sink   Sink
	gate   *Gate
	zoom   int
	logger *zap.Logger
}

// NewSynchronizer constructs a Synchronizer writing to sink.
func NewSynchronizer(sink Sink, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		sink:   sink,
		gate:   &Gate{},
		zoom:   DefaultZoom,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.Views = (*Synchronizer)(nil)

// OnCreate renders a new workout as a marker and a list item.
func (s *Synchronizer) OnCreate(ctx context.Context, w domain.Workout) {
	s.emitMap(ctx, Instruction{Kind: KindMarkerAdd, WorkoutID: w.ID, Marker: ptr(NewMarker(w))})
	s.emit(ctx, Instruction{Kind: KindListAppend, WorkoutID: w.ID, Item: ptr(NewListItem(w))})
}

// OnEdit replaces the list item. The marker is left alone since neither its
// position nor its popup can change.
func (s *Synchronizer) OnEdit(ctx context.Context, w domain.Workout) {
	s.emit(ctx, Instruction{Kind: KindListRemove, WorkoutID: w.ID})
	s.emit(ctx, Instruction{Kind: KindListAppend, WorkoutID: w.ID, Item: ptr(NewListItem(w))})
}

// OnDelete removes the list item. Markers are only cleared in bulk.
func (s *Synchronizer) OnDelete(ctx context.Context, id string) {
	s.emit(ctx, Instruction{Kind: KindListRemove, WorkoutID: id})
}

// OnDeleteAll clears the list and every marker.
func (s *Synchronizer) OnDeleteAll(ctx context.Context) {
	s.emit(ctx, Instruction{Kind: KindListClear})
	s.emitMap(ctx, Instruction{Kind: KindMarkerClear})
}

// OnRestore rebuilds both views from the restored workouts. Renderers that
// outlive the process start again from empty rather than appending twice.
func (s *Synchronizer) OnRestore(ctx context.Context, workouts []domain.Workout) {
	s.emit(ctx, Instruction{Kind: KindListClear})
	s.emitMap(ctx, Instruction{Kind: KindMarkerClear})
	for _, w := range workouts {
		s.emit(ctx, Instruction{Kind: KindListAppend, WorkoutID: w.ID, Item: ptr(NewListItem(w))})
	}
	for _, w := range workouts {
		s.emitMap(ctx, Instruction{Kind: KindMarkerAdd, WorkoutID: w.ID, Marker: ptr(NewMarker(w))})
	}
}

// OnSelect pans the map to the workout.
func (s *Synchronizer) OnSelect(ctx context.Context, w domain.Workout) {
	s.OnLocate(ctx, w.Coordinates)
}

// OnLocate centres the map on at.
func (s *Synchronizer) OnLocate(ctx context.Context, at domain.Coordinates) {
	s.emitMap(ctx, Instruction{Kind: KindMapSetView, View: &MapView{Center: at, Zoom: s.zoom}})
}

// MapReady opens the readiness gate, flushing queued map instructions.
func (s *Synchronizer) MapReady(context.Context) {
	s.gate.Ready()
	observability.RecordPendingMapInstructions(s.gate.Pending())
}

// Ready reports whether the map has signalled readiness.
func (s *Synchronizer) Ready() bool {
	return s.gate.IsReady()
}

func (s *Synchronizer) emitMap(ctx context.Context, in Instruction) {
	// queued work may outlive the request that produced it
	detached := context.WithoutCancel(ctx)
	s.gate.Do(func() { s.emit(detached, in) })
	observability.RecordPendingMapInstructions(s.gate.Pending())
}

func (s *Synchronizer) emit(ctx context.Context, in Instruction) {
	observability.RecordInstruction(string(in.Kind))
	if err := s.sink.Emit(ctx, in); err != nil {
		observability.RecordSinkError()
		s.logger.Warn("rendering instruction rejected",
			zap.String("kind", string(in.Kind)),
			zap.String("workout_id", in.WorkoutID),
			zap.Error(err),
		)
	}
}

func ptr[T any](v T) *T {
	return &v
}

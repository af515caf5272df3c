package view

import (
	"context"
	"errors"
)

// Sink receives rendering instructions.
type Sink interface {
	Emit(ctx context.Context, in Instruction) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, in Instruction) error

// Emit implements Sink.
func (f SinkFunc) Emit(ctx context.Context, in Instruction) error {
	return f(ctx, in)
}

// Fanout delivers every instruction to each sink in order, collecting failures.
type Fanout []Sink

// Emit implements Sink.
func (f Fanout) Emit(ctx context.Context, in Instruction) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Emit(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

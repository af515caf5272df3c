package consumer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"example.com/workoutmap/internal/view"
)

// Applier mutates a rendered board.
type Applier interface {
	Apply(view.Instruction) error
}

// ProjectionHandler applies each stream's instructions in sequence. Redelivered
// instructions are acknowledged without being applied again.
type ProjectionHandler struct {
	board  Applier
	logger *zap.Logger

	mu   sync.Mutex
	last map[string]uint64
}

// NewProjectionHandler constructs a ProjectionHandler over board.
func NewProjectionHandler(board Applier, logger *zap.Logger) *ProjectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectionHandler{board: board, logger: logger, last: make(map[string]uint64)}
}

// Handle implements Handler.
func (h *ProjectionHandler) Handle(_ context.Context, msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	last := h.last[msg.Stream]
	if msg.Seq <= last {
		recordDuplicate(msg.Topic)
		return nil
	}
	if last > 0 && msg.Seq != last+1 {
		recordGap(msg.Topic)
		h.logger.Warn("instruction stream has a gap",
			zap.String("stream", msg.Stream),
			zap.Uint64("expected", last+1),
			zap.Uint64("got", msg.Seq),
		)
	}

	if err := h.board.Apply(msg.Instruction); err != nil {
		return err
	}
	h.last[msg.Stream] = msg.Seq
	recordProjectionLag(msg)
	return nil
}

// Position reports the last applied sequence number of stream.
func (h *ProjectionHandler) Position(stream string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last[stream]
}

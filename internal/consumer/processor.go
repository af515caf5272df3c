// Package consumer reads published rendering instructions from Kafka and
// projects them into a local board.
package consumer

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/workoutmap/internal/broadcast"
	"example.com/workoutmap/internal/view"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded messages from Kafka.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is the decoded representation of a published instruction.
type Message struct {
	Topic       string
	Partition   int
	Offset      int64
	Timestamp   time.Time
	Stream      string
	Seq         uint64
	EmittedAt   time.Time
	Instruction view.Instruction
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor pulls messages from Kafka, decodes them, and dispatches to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *zap.Logger
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run starts a blocking loop that processes Kafka messages until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Warn("fetch error", zap.Error(err))
			continue
		}

		decoded, decodeErr := decodeMessage(msg)
		if decodeErr != nil {
			p.logger.Warn("decode error",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(decodeErr),
			)
			recordDecodeError(msg.Topic)
			// Commit malformed messages to avoid poison-pill loops.
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Warn("commit error after decode failure", zap.Error(commitErr))
			}
			continue
		}

		if handleErr := p.handler.Handle(ctx, decoded); handleErr != nil {
			p.logger.Warn("handler error",
				zap.String("kind", string(decoded.Instruction.Kind)),
				zap.String("stream", decoded.Stream),
				zap.Uint64("seq", decoded.Seq),
				zap.Error(handleErr),
			)
			recordHandlerError(decoded)
			continue
		}

		if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
			p.logger.Warn("commit error", zap.Error(commitErr))
		} else {
			recordProcessed(decoded)
		}
	}
}

func decodeMessage(msg kafka.Message) (Message, error) {
	env, err := broadcast.Decode(msg)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Topic:       msg.Topic,
		Partition:   msg.Partition,
		Offset:      msg.Offset,
		Timestamp:   msg.Time,
		Stream:      env.Stream,
		Seq:         env.Seq,
		EmittedAt:   env.EmittedAt,
		Instruction: env.Instruction,
	}, nil
}

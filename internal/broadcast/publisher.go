package broadcast

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/workoutmap/internal/view"
)

// DefaultQueueSize bounds the envelopes waiting for the background writer.
const DefaultQueueSize = 1024

var (
	// ErrQueueFull is returned by Emit when the writer has fallen behind.
	ErrQueueFull = errors.New("broadcast queue full")
	// ErrPublisherClosed is returned by Emit after Close.
	ErrPublisherClosed = errors.New("publisher closed")
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger overrides the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithQueueSize overrides DefaultQueueSize.
func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

type queued struct {
	kind view.Kind
	msg  kafka.Message
}

// Publisher is a view.Sink publishing every instruction to a Kafka topic.
// Emit only sequences and enqueues; Run writes the queue in order so a slow
// broker never blocks the caller.
type Publisher struct {
	producer  messageWriter
	topic     string
	stream    string
	now       func() time.Time
	logger    *zap.Logger
	queueSize int

	mu     sync.Mutex
	seq    uint64
	closed bool
	queue  chan queued
}

// NewPublisher constructs a Publisher with a fresh stream id.
func NewPublisher(producer messageWriter, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer:  producer,
		topic:     topic,
		stream:    uuid.NewString(),
		now:       time.Now,
		logger:    zap.NewNop(),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.queue = make(chan queued, p.queueSize)
	return p
}

var _ view.Sink = (*Publisher)(nil)

// Stream returns the id stamped on every envelope.
func (p *Publisher) Stream() string {
	return p.stream
}

// Emit implements view.Sink. A rejected instruction does not consume a
// sequence number.
func (p *Publisher) Emit(_ context.Context, in view.Instruction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	env := Envelope{
		Stream:      p.stream,
		Seq:         p.seq + 1,
		EmittedAt:   p.now().UTC(),
		Instruction: in,
	}
	msg, err := Encode(env)
	if err != nil {
		return err
	}
	select {
	case p.queue <- queued{kind: in.Kind, msg: msg}:
	default:
		recordPublishFailure(p.topic)
		return ErrQueueFull
	}
	p.seq = env.Seq
	return nil
}

// Run writes queued envelopes in order until Close drains the queue or ctx
// is cancelled. Envelopes the broker rejects are logged and counted; the
// projection sees the sequence gap.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case q, ok := <-p.queue:
			if !ok {
				return nil
			}
			if err := p.producer.WriteMessages(ctx, p.topic, q.msg); err != nil {
				recordPublishFailure(p.topic)
				p.logger.Warn("publish rendering instruction failed",
					zap.String("topic", p.topic),
					zap.String("kind", string(q.kind)),
					zap.Error(err),
				)
				continue
			}
			recordPublished(p.topic, string(q.kind))
		}
	}
}

// Close stops accepting instructions. Run returns once the queue is drained.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.queue)
}

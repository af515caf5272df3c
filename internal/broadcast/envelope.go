package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/workoutmap/internal/view"
)

// Header keys and the envelope version carried on every record.
const (
	HeaderKind    = "instruction_kind"
	HeaderVersion = "envelope_version"
	HeaderStream  = "stream_id"

	EnvelopeVersion = "v1"
)

// Envelope wraps an instruction with its position in the publisher's stream.
// Seq starts at 1 and increases by one per instruction within a stream.
type Envelope struct {
	Stream      string           `json:"stream"`
	Seq         uint64           `json:"seq"`
	EmittedAt   time.Time        `json:"emitted_at"`
	Instruction view.Instruction `json:"instruction"`
}

// Encode renders env as a Kafka record keyed by stream.
func Encode(env Envelope) (kafka.Message, error) {
	value, err := json.Marshal(env)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(env.Stream),
		Value: value,
		Time:  env.EmittedAt,
		Headers: []kafka.Header{
			{Key: HeaderKind, Value: []byte(env.Instruction.Kind)},
			{Key: HeaderVersion, Value: []byte(EnvelopeVersion)},
			{Key: HeaderStream, Value: []byte(env.Stream)},
		},
	}, nil
}

// Decode parses a record produced by Encode.
func Decode(msg kafka.Message) (Envelope, error) {
	version, ok := headerValue(msg, HeaderVersion)
	if !ok {
		return Envelope{}, errors.New("missing envelope_version header")
	}
	if string(version) != EnvelopeVersion {
		return Envelope{}, fmt.Errorf("unsupported envelope version %q", version)
	}

	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Stream == "" || env.Seq == 0 {
		return Envelope{}, errors.New("envelope without stream position")
	}
	if kind, ok := headerValue(msg, HeaderKind); ok && string(kind) != string(env.Instruction.Kind) {
		return Envelope{}, fmt.Errorf("kind header %q does not match payload %q", kind, env.Instruction.Kind)
	}
	return env, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}

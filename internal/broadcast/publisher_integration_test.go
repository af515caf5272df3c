//go:build integration

package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaContainer "github.com/testcontainers/testcontainers-go/modules/kafka"

	"example.com/workoutmap/internal/view"
)

func TestPublisherRoundTripThroughKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	kafkaC, err := kafkaContainer.RunContainer(ctx, testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)

	topic := "workoutmap.view.v1"
	conn, err := kafka.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	}))

	producer := NewKafkaProducer(brokers)
	t.Cleanup(func() { _ = producer.Close() })
	pub := NewPublisher(producer, topic)

	kinds := []view.Kind{view.KindListClear, view.KindMarkerClear, view.KindListRemove}
	for _, kind := range kinds {
		require.NoError(t, pub.Emit(ctx, view.Instruction{Kind: kind, WorkoutID: "w-1"}))
	}
	pub.Close()
	require.NoError(t, pub.Run(ctx))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     "broadcast-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	var got []Envelope
	for len(got) < len(kinds) {
		msg, err := reader.FetchMessage(ctx)
		require.NoError(t, err)
		env, err := Decode(msg)
		require.NoError(t, err)
		got = append(got, env)
	}

	for i, env := range got {
		require.Equal(t, uint64(i+1), env.Seq)
		require.Equal(t, kinds[i], env.Instruction.Kind)
		require.Equal(t, pub.Stream(), env.Stream)
	}
}

package consumer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "messages_processed_total",
		Help:      "Number of Kafka messages successfully handled.",
	}, []string{"topic", "kind"})

	handlerErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "handler_errors_total",
		Help:      "Number of handler errors grouped by topic and instruction kind.",
	}, []string{"topic", "kind"})

	decodeErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "decode_errors_total",
		Help:      "Number of decode failures per topic.",
	}, []string{"topic"})

	duplicateCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "duplicates_skipped_total",
		Help:      "Number of redelivered instructions acknowledged without being applied.",
	}, []string{"topic"})

	gapCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "sequence_gaps_total",
		Help:      "Number of times an instruction arrived after missing predecessors.",
	}, []string{"topic"})

	lastMessageGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "last_message_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successfully processed message per topic.",
	}, []string{"topic"})

	projectionLag = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "workoutmap",
		Subsystem: "consumer",
		Name:      "projection_lag_seconds",
		Help:      "Time between an instruction being emitted and applied to the board.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})
)

func init() {
	prometheus.MustRegister(processedCounter, handlerErrorCounter, decodeErrorCounter, duplicateCounter, gapCounter, lastMessageGauge, projectionLag)
}

func recordProcessed(msg Message) {
	processedCounter.WithLabelValues(msg.Topic, string(msg.Instruction.Kind)).Inc()
	if !msg.Timestamp.IsZero() {
		lastMessageGauge.WithLabelValues(msg.Topic).Set(float64(msg.Timestamp.Unix()))
	}
}

func recordHandlerError(msg Message) {
	handlerErrorCounter.WithLabelValues(msg.Topic, string(msg.Instruction.Kind)).Inc()
}

func recordDecodeError(topic string) {
	decodeErrorCounter.WithLabelValues(topic).Inc()
}

func recordDuplicate(topic string) {
	duplicateCounter.WithLabelValues(topic).Inc()
}

func recordGap(topic string) {
	gapCounter.WithLabelValues(topic).Inc()
}

func recordProjectionLag(msg Message) {
	if msg.EmittedAt.IsZero() {
		return
	}
	projectionLag.Observe(time.Since(msg.EmittedAt).Seconds())
}

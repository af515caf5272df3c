package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	storeSizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutmap",
		Subsystem: "store",
		Name:      "workouts",
		Help:      "Number of workouts currently held by the store.",
	})
	mutationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "store",
		Name:      "mutations_total",
		Help:      "Number of committed store mutations grouped by operation.",
	}, []string{"op"})
	mutationFailedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "store",
		Name:      "mutations_rolled_back_total",
		Help:      "Number of store mutations rolled back because persisting failed.",
	}, []string{"op"})
	snapshotSavedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutmap",
		Subsystem: "persistence",
		Name:      "last_snapshot_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout snapshot written to the blob store.",
	})
	snapshotBytesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutmap",
		Subsystem: "persistence",
		Name:      "snapshot_bytes",
		Help:      "Size of the most recent workout snapshot in bytes.",
	})
	corruptSnapshotCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "persistence",
		Name:      "corrupt_snapshots_total",
		Help:      "Number of persisted snapshots discarded as unreadable.",
	})
	instructionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "view",
		Name:      "instructions_emitted_total",
		Help:      "Number of rendering instructions emitted grouped by kind.",
	}, []string{"kind"})
	sinkErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "view",
		Name:      "sink_errors_total",
		Help:      "Number of rendering instructions a sink failed to accept.",
	})
	pendingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutmap",
		Subsystem: "view",
		Name:      "pending_map_instructions",
		Help:      "Number of map instructions waiting for the map to become ready.",
	})
)

func init() {
	prometheus.MustRegister(storeSizeGauge, mutationCounter, mutationFailedCounter, snapshotSavedGauge, snapshotBytesGauge, corruptSnapshotCounter,
		instructionCounter, sinkErrorCounter, pendingGauge)
}

// RecordStoreSize updates the store size gauge.
func RecordStoreSize(n int) {
	storeSizeGauge.Set(float64(n))
}

// RecordMutation counts a committed mutation.
func RecordMutation(op string) {
	mutationCounter.WithLabelValues(op).Inc()
}

// RecordMutationFailed counts a rolled back mutation.
func RecordMutationFailed(op string) {
	mutationFailedCounter.WithLabelValues(op).Inc()
}

// RecordSnapshotSaved updates the persistence watermark gauges.
func RecordSnapshotSaved(ts time.Time, size int) {
	if ts.IsZero() {
		return
	}
	snapshotSavedGauge.Set(float64(ts.Unix()))
	snapshotBytesGauge.Set(float64(size))
}

// RecordCorruptSnapshot counts a discarded snapshot.
func RecordCorruptSnapshot() {
	corruptSnapshotCounter.Inc()
}

// RecordInstruction counts an emitted instruction.
func RecordInstruction(kind string) {
	instructionCounter.WithLabelValues(kind).Inc()
}

// RecordSinkError counts an instruction a sink rejected.
func RecordSinkError() {
	sinkErrorCounter.Inc()
}

// RecordPendingMapInstructions updates the readiness backlog gauge.
func RecordPendingMapInstructions(n int) {
	pendingGauge.Set(float64(n))
}

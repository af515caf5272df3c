package broadcast

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "broadcast",
		Name:      "instructions_published_total",
		Help:      "Number of rendering instructions published to Kafka grouped by kind.",
	}, []string{"topic", "kind"})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutmap",
		Subsystem: "broadcast",
		Name:      "publish_failures_total",
		Help:      "Number of rendering instructions that could not be published.",
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(publishedCounter, failedCounter)
}

func recordPublished(topic, kind string) {
	publishedCounter.WithLabelValues(topic, kind).Inc()
}

func recordPublishFailure(topic string) {
	failedCounter.WithLabelValues(topic).Inc()
}

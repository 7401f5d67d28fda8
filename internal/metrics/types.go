package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	QueueJoins         prometheus.Counter
	QueueLeaves        prometheus.Counter
	QueueCallUps       prometheus.Counter
	MatchesCreated     prometheus.Counter
	MatchesCompleted   prometheus.Counter
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	SweepRuns          prometheus.Counter
	ProcessingDuration prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}

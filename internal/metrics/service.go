package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		QueueJoins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_queue_joins_total",
			Help: "The total number of successful queue joins.",
		}),
		QueueLeaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_queue_leaves_total",
			Help: "The total number of voluntary queue leaves.",
		}),
		QueueCallUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_queue_callups_total",
			Help: "The total number of call-next operations performed.",
		}),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_matches_created_total",
			Help: "The total number of matches created.",
		}),
		MatchesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_matches_completed_total",
			Help: "The total number of matches completed with a recorded result.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		SweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smashqueue_sweep_runs_total",
			Help: "The total number of times the stale-entry sweeper has run.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smashqueue_processing_duration_seconds",
			Help:    "The duration of individual state-changing operations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smashqueue_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.QueueJoins,
		s.QueueLeaves,
		s.QueueCallUps,
		s.MatchesCreated,
		s.MatchesCompleted,
		s.NotifSent,
		s.NotifFailed,
		s.SweepRuns,
		s.ProcessingDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncQueueJoins() {
	s.QueueJoins.Inc()
}

func (s *Service) IncQueueLeaves() {
	s.QueueLeaves.Inc()
}

func (s *Service) IncQueueCallUps() {
	s.QueueCallUps.Inc()
}

func (s *Service) IncMatchesCreated() {
	s.MatchesCreated.Inc()
}

func (s *Service) IncMatchesCompleted() {
	s.MatchesCompleted.Inc()
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) IncSweepRuns() {
	s.SweepRuns.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}

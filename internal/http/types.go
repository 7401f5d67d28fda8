package http

import (
	"net/http"

	"github.com/mauv0809/smashqueue/internal/auth"
	"github.com/mauv0809/smashqueue/internal/config"
	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/metrics"
	"github.com/mauv0809/smashqueue/internal/notifier"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/processor"
	"github.com/mauv0809/smashqueue/internal/pubsub"
	"github.com/mauv0809/smashqueue/internal/queue"
	"github.com/mauv0809/smashqueue/internal/stats"
)

type Server struct {
	Players        players.PlayerStore
	Queue          queue.QueueStore
	Matches        match.Controller
	Stats          stats.Aggregator
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Verifier       *auth.Verifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

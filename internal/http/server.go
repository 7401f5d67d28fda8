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

func NewServer(
	playerStore players.PlayerStore,
	queueStore queue.QueueStore,
	matchCtrl match.Controller,
	aggregator stats.Aggregator,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	notifier notifier.Notifier,
	processor *processor.Processor,
	verifier *auth.Verifier,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Players:        playerStore,
		Queue:          queueStore,
		Matches:        matchCtrl,
		Stats:          aggregator,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Verifier:       verifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// authMiddleware resolves the bearer token into an identity; capability
	// gates are layered on top where a route is privileged.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /queue", Chain(s.QueueStatusHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("POST /queue/join", Chain(s.QueueJoinHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("POST /queue/leave", Chain(s.QueueLeaveHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("POST /queue/call", Chain(s.QueueCallHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapQueueCall)))

	s.Router.Handle("POST /matches", Chain(s.MatchCreateHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapMatchCreate)))
	s.Router.Handle("PUT /matches/result", Chain(s.MatchResultHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapMatchRecord)))
	s.Router.Handle("GET /matches/active", Chain(s.ActiveMatchesHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /admin/matches/completed", Chain(s.CompletedMatchesHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapViewCompleted)))

	s.Router.Handle("GET /profile", Chain(s.ProfileHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("PUT /profile", Chain(s.UpdateProfileHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /users/profile", Chain(s.UserProfileHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("GET /users/matches", Chain(s.UserMatchesHandler(), paramsMiddleware, s.authMiddleware))

	s.Router.Handle("GET /admin/users", Chain(s.AdminListUsersHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapAdminUsers)))
	s.Router.Handle("PUT /admin/users/{id}", Chain(s.AdminUpdateUserHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapAdminUsers)))

	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware, s.authMiddleware))
	s.Router.Handle("POST /sweep", Chain(s.SweepHandler(), paramsMiddleware, s.authMiddleware, requireCapability(auth.CapSweep)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

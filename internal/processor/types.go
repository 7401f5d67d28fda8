package processor

import (
	"time"

	"github.com/mauv0809/smashqueue/internal/metrics"
	"github.com/mauv0809/smashqueue/internal/pubsub"
	"github.com/mauv0809/smashqueue/internal/queue"
)

// Processor sweeps the queue for called entries that were never consumed into
// a match, flipping them to expired so the line keeps moving.
type Processor struct {
	queue     queue.QueueStore
	metrics   metrics.Metrics
	pubsub    pubsub.PubSubClient
	calledTTL time.Duration
}

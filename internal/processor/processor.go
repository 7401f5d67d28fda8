package processor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/smashqueue/internal/metrics"
	"github.com/mauv0809/smashqueue/internal/pubsub"
	"github.com/mauv0809/smashqueue/internal/queue"
)

// New creates a new Processor.
func New(queueStore queue.QueueStore, metricsSvc metrics.Metrics, pubsubClient pubsub.PubSubClient, calledTTL time.Duration) *Processor {
	return &Processor{
		queue:     queueStore,
		metrics:   metricsSvc,
		pubsub:    pubsubClient,
		calledTTL: calledTTL,
	}
}

// Sweep expires called entries older than the configured TTL and returns how
// many were affected. In dry-run mode nothing is mutated.
func (p *Processor) Sweep(dryRun bool) int {
	start := time.Now()
	p.metrics.IncSweepRuns()

	if dryRun {
		log.Info("[Dry Run] Would expire stale called entries", "ttl", p.calledTTL)
		return 0
	}

	expired, err := p.queue.ExpireStale(p.calledTTL)
	if err != nil {
		log.Error("Failed to expire stale queue entries", "error", err)
		return 0
	}

	if expired > 0 {
		if err := p.pubsub.SendMessage(pubsub.EventQueueCalled, map[string]int{"expired": expired}); err != nil {
			log.Error("Failed to publish sweep event", "error", err)
		}
	}

	p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())
	log.Info("Sweep finished", "expired", expired)
	return expired
}

package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. Clients
// polling for state changes subscribe to these topics.
type EventType string

const (
	EventQueueCalled    EventType = "queue-called"
	EventMatchCreated   EventType = "match-created"
	EventMatchCompleted EventType = "match-completed"
)

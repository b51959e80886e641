// Package pubsub fans deck events out to any number of listeners and adapts
// subscriptions to Bubble Tea commands.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	// LogEntry carries one formatted debug log line.
	LogEntry EventType = "log"
	// Navigated is published after the active slide changed.
	Navigated EventType = "navigated"
	// Reloaded is published after the deck file was re-read.
	Reloaded EventType = "reloaded"
	// Command carries a navigation request from an external source.
	Command EventType = "command"
	// Failed is published when a background source hit an error.
	Failed EventType = "failed"
)

// Event wraps a payload with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out event channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

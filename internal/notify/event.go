package notify

import (
	"context"
	"time"
)

// Collection names the kind of record an event is about.
type Collection string

const (
	CollectionSubjects Collection = "subjects"
	CollectionTopics   Collection = "topics"
	CollectionBlocks   Collection = "blocks"
	CollectionAlerts   Collection = "alerts"
	CollectionSettings Collection = "settings"
)

// Op is the kind of write that produced an event.
type Op string

const (
	OpAdd     Op = "add"
	OpUpdate  Op = "update"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
)

// Event announces that a tenant's data changed. Subscribers re-read the
// collection; events carry no record payload.
type Event struct {
	Tenant     string     `json:"tenant"`
	Collection Collection `json:"collection"`
	Op         Op         `json:"op"`
	ID         string     `json:"id,omitempty"`
	At         time.Time  `json:"at"`

	// Origin identifies the process that published the event over a bus.
	Origin string `json:"origin,omitempty"`
}

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher in order and returns the first error.
// All publishers are tried even when one fails.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

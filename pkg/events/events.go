package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chartsync/chartsync/pkg/types"
)

// EventType represents the type of reconciliation event
type EventType string

const (
	EventReconcileStarted EventType = "reconcile.started"
	EventReleaseDeployed  EventType = "release.deployed"
	EventReleaseDeleted   EventType = "release.deleted"
	EventReleaseUnchanged EventType = "release.unchanged"
	EventReconcileFailed  EventType = "reconcile.failed"
)

// Event is one reconciliation lifecycle notification
type Event struct {
	ID        string
	Type      EventType
	Release   string
	Namespace string
	Timestamp time.Time
	Message   string

	// Outcome is set on completion events
	Outcome *types.Outcome

	// Error is set on failure events
	Error string
}

// NewEvent creates an event with a fresh ID
func NewEvent(t EventType, release, namespace, message string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Release:   release,
		Namespace: namespace,
		Message:   message,
	}
}

// ForOutcome maps a reconciliation outcome to its completion event
func ForOutcome(outcome *types.Outcome) *Event {
	var t EventType
	switch {
	case outcome.Action == types.ActionDelete:
		t = EventReleaseDeleted
	case outcome.Changed:
		t = EventReleaseDeployed
	default:
		t = EventReleaseUnchanged
	}

	ev := NewEvent(t, outcome.Release, outcome.Namespace, "")
	ev.Outcome = outcome
	return ev
}

// Subscriber is a channel that receives events
type Subscriber chan *Event

// Broker manages event subscriptions and distribution
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	eventCh     chan *Event
	stopCh      chan struct{}
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		eventCh:     make(chan *Event, 100), // Buffer up to 100 events
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's event distribution loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50) // Buffer per subscriber
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subscribers, sub)
	close(sub)
}

// Publish publishes an event to all subscribers
func (b *Broker) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	select {
	case b.eventCh <- event:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case event := <-b.eventCh:
			b.broadcast(event)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber buffer full, skip
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/CommandLineFox/NotificationBot/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeNotification EventType = "notification"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// NotificationEvent carries a novelty signal from the poll loop to the
// delivery layer.
type NotificationEvent struct {
	Notification models.Notification
}

func (e NotificationEvent) Type() EventType {
	return EventTypeNotification
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish dispatches an event to all handlers subscribed to its type.
// Handlers run synchronously in subscription order; a panicking handler is
// recovered and logged so it cannot take down the publisher.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			handler(ctx, event)
		}()
	}
}

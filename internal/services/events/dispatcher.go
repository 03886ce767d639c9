// Package events delivers payment outcome events to registered listeners.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/kevin07696/authnet-service/internal/domain"
	"github.com/kevin07696/authnet-service/pkg/timeutil"
	"go.uber.org/zap"
)

// EventType names an outcome.
type EventType string

const (
	// PaymentSucceeded is published for an approved notification with a valid hash.
	PaymentSucceeded EventType = "payment.succeeded"
	// PaymentFlagged is published for every other notification.
	PaymentFlagged EventType = "payment.flagged"
)

// Event carries the response a notification produced.
type Event struct {
	Type       EventType
	Response   domain.TransactionResponse
	HashValid  bool
	OccurredAt time.Time
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, resp domain.TransactionResponse, hashValid bool) Event {
	return Event{Type: t, Response: resp, HashValid: hashValid, OccurredAt: timeutil.Now()}
}

// Listener reacts to an event.
type Listener interface {
	Handle(ctx context.Context, evt Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, evt Event) error

func (f ListenerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Dispatcher is an explicit listener registry. Listeners run synchronously in
// subscription order; a failing listener is logged and does not stop the rest.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]Listener
	logger    *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]Listener),
		logger:    logger,
	}
}

// Subscribe registers a listener for one event type.
func (d *Dispatcher) Subscribe(t EventType, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[t] = append(d.listeners[t], l)
}

// SubscribeAll registers a listener for both outcomes.
func (d *Dispatcher) SubscribeAll(l Listener) {
	d.Subscribe(PaymentSucceeded, l)
	d.Subscribe(PaymentFlagged, l)
}

// Publish delivers evt to its listeners and returns how many failed.
func (d *Dispatcher) Publish(ctx context.Context, evt Event) int {
	d.mu.RLock()
	listeners := append([]Listener(nil), d.listeners[evt.Type]...)
	d.mu.RUnlock()

	failed := 0
	for _, l := range listeners {
		if err := d.call(ctx, l, evt); err != nil {
			failed++
			d.logger.Error("Event listener failed",
				zap.String("event_type", string(evt.Type)),
				zap.String("trans_id", evt.Response.TransID),
				zap.Error(err),
			)
		}
	}
	return failed
}

func (d *Dispatcher) call(ctx context.Context, l Listener, evt Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("Event listener panicked",
				zap.String("event_type", string(evt.Type)),
				zap.Any("panic", p),
			)
			err = errListenerPanic
		}
	}()
	return l.Handle(ctx, evt)
}

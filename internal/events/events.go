// Package events is the in-process notification channel between the
// subscription registry and its reactive consumers.
package events

import (
	"context"
	"fmt"
	"sync"

	"CourseMarket/internal/models"
)

type SubscriptionCreated struct {
	Subscription models.Subscription
}

type SubscriptionCreatedHandler func(ctx context.Context, e SubscriptionCreated) error

// Dispatcher delivers events synchronously, in registration order, on the
// publisher's goroutine. Publish returns once every handler has run.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []SubscriptionCreatedHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) OnSubscriptionCreated(h SubscriptionCreatedHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// PublishSubscriptionCreated stops at the first failing handler.
func (d *Dispatcher) PublishSubscriptionCreated(ctx context.Context, e SubscriptionCreated) error {
	d.mu.RLock()
	handlers := make([]SubscriptionCreatedHandler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	for i, h := range handlers {
		if err := h(ctx, e); err != nil {
			return fmt.Errorf("subscription created handler %d: %w", i, err)
		}
	}
	return nil
}

// Package bus is the in-process notification channel for entity
// changes. Mutation handlers publish after a successful backend write;
// subscribers (cache invalidation, the AMQP mirror) react so that every
// dependent view refreshes from the same signal.
package bus

import (
	"context"
	"log/slog"
	"sync"
)

// Entity identifies which resource kind changed.
type Entity string

const (
	EntityExpense Entity = "expense"
	EntityBudget  Entity = "budget"
	EntityIncome  Entity = "income"
	EntitySaving  Entity = "saving"
	EntityDue     Entity = "due"
)

// Action identifies what happened to the entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionSettled Action = "settled"
)

// Event describes one committed change for one user.
type Event struct {
	Entity Entity
	Action Action
	UserID string
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must be fast.
type Handler func(ctx context.Context, ev Event)

// Mirror forwards events to an external broker. Mirror failures are
// logged, never propagated: the user's write already succeeded.
type Mirror interface {
	PublishEntityChanged(ctx context.Context, ev Event) error
}

// Bus fans events out to registered handlers and an optional mirror.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	mirror   Mirror
}

func New() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// SetMirror attaches an external broker mirror. Passing nil detaches.
func (b *Bus) SetMirror(m Mirror) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mirror = m
}

// Publish delivers the event to every handler, then to the mirror.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := b.handlers
	mirror := b.mirror
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}

	if mirror != nil {
		if err := mirror.PublishEntityChanged(ctx, ev); err != nil {
			slog.WarnContext(ctx, "Failed to mirror entity change",
				"entity", ev.Entity,
				"action", ev.Action,
				"user_id", ev.UserID,
				"error", err)
		}
	}
}

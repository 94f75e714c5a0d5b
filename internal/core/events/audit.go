package events

import (
	"context"
	"log/slog"
)

// Publisher is the part of the bus services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RegisterAuditLog writes every domain event to the log. Decisions and suspensions get
// an extra line naming who acted on whom.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	bus.SubscribeAll(func(ctx context.Context, event Event) error {
		logger.Info("audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}, AllEventTypes...)

	bus.OnOrderDecided(func(ctx context.Context, e *OrderDecidedEvent) error {
		logger.Info("order decision recorded",
			"order_id", e.OrderID,
			"owner_id", e.OwnerID,
			"decided_by", e.DecidedBy,
			"status", e.Status)
		return nil
	})

	bus.OnUserSuspended(func(ctx context.Context, e *UserSuspendedEvent) error {
		logger.Info("account suspension recorded",
			"user_id", e.UserID,
			"suspended_by", e.SuspendedBy,
			"reason", e.Reason)
		return nil
	})
}

// NopPublisher drops every event. Useful where no bus is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

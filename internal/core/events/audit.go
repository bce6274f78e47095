package events

import (
	"context"
	"log/slog"
)

// RegisterAuditLog writes one structured log line per domain event.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	for _, eventType := range AllEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			attrs := []any{"event_type", event.EventType(), "event_id", event.EventID(), "occurred_at", event.OccurredAt()}
			if data, ok := event.Payload().(map[string]interface{}); ok {
				for k, v := range data {
					attrs = append(attrs, k, v)
				}
			}
			audit.InfoContext(ctx, "audit", attrs...)
			return nil
		})
	}
}

package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/garments-tracker/internal/core/events"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage domain events: publish test events through the bus and its audit subscriber`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test event",
	Long:      `Publish a test event to the event bus for testing and debugging`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.AllEventTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0], eventData)
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType, message string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	events.RegisterAuditLog(eventBus, lg)

	known := false
	for _, t := range events.AllEventTypes {
		if t == eventType {
			known = true
			break
		}
	}
	if !known {
		lg.Warn("unknown event type, only a test handler will receive it", "event_type", eventType)
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			lg.Info("test handler received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}

	testEvent := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"message": message,
			"source":  "cli-command",
		},
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)
	if err := eventBus.PublishSync(ctx, testEvent); err != nil {
		return err
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}

package notification

import (
	"context"
	"log/slog"

	"github.com/shukketsu-app/backend-go/internal/domain/notification"
)

// LogDispatcher emits notification events to the structured log. Delivery to
// push or mail providers belongs to an external notifier consuming the log
// stream; the core only records intent.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) notification.Dispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch implements notification.Dispatcher. It never returns an error;
// failures here must not affect the decision that produced the event.
func (d *LogDispatcher) Dispatch(ctx context.Context, event notification.Event) {
	d.logger.InfoContext(ctx, "notification dispatched",
		slog.String("recipient_id", event.RecipientID),
		slog.String("type", string(event.Type)),
		slog.String("title", event.Title),
		slog.String("priority", string(event.Priority)),
	)
}

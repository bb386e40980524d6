package notification

import "context"

// Type categorizes an outbound notification event.
type Type string

const (
	TypeApproval  Type = "approval"
	TypeRejection Type = "rejection"
)

// Priority hints how the external notifier should surface the event.
type Priority string

const (
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Event is a transient outbound notification. Delivery belongs to an
// external notifier; this core only emits.
type Event struct {
	RecipientID string
	Type        Type
	Title       string
	Body        string
	Priority    Priority
}

// Dispatcher hands events to the external notifier, fire and forget. A
// dispatch failure must never fail the transaction that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

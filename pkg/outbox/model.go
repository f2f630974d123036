package outbox

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// MaxRetries is how many failed dispatches an event survives before it is
// parked as failed.
const MaxRetries = 5

type Event struct {
	ID            uint64
	AggregateType string
	AggregateID   string
	Type          string
	Payload       []byte
	CreatedAt     time.Time
}

package notification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindFineCreated Kind = "fine.created"
	KindFinePaid    Kind = "fine.paid"
	KindFineWaived  Kind = "fine.waived"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelInApp Channel = "in_app"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Event is emitted by the fine ledger after a committed change.
type Event struct {
	Kind       Kind            `json:"kind"`
	UserID     string          `json:"user_id"`
	FineID     string          `json:"fine_id"`
	LoanID     string          `json:"loan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Channels   []Channel       `json:"channels"`
	Priority   Priority        `json:"priority"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Publisher hands events to the delivery side. Delivery is best-effort:
// a failing Publish never undoes the ledger change.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Package events publishes balance mutations to interested consumers.
package events

import (
	"context"
	"log/slog"
	"time"
)

const (
	TypeRechargeCompleted = "recharge.completed"
	TypeTransferCompleted = "transfer.completed"
)

// TransactionEvent describes a committed recharge or transfer. The event type
// doubles as the routing key.
type TransactionEvent struct {
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id"`
	UserID      string    `json:"user_id"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Amount      string    `json:"amount"`
	Provider    string    `json:"provider,omitempty"`
	NewBalance  string    `json:"new_balance"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
	Close()
}

// NoopPublisher is used when no broker is configured or reachable at startup.
type NoopPublisher struct {
	Logger *slog.Logger
}

func (p *NoopPublisher) Publish(ctx context.Context, event TransactionEvent) error {
	if p.Logger != nil {
		p.Logger.DebugContext(ctx, "event publish skipped", slog.String("type", event.Type), slog.String("reference_id", event.ReferenceID))
	}
	return nil
}

func (p *NoopPublisher) Close() {}

// Package events defines the domain events emitted after financial
// mutations and the publisher boundary that delivers them.
//
// Delivery is at-least-once; consumers must tolerate duplicates. Every
// event carries the tenant and a correlation id so consumers can trace
// a mutation end to end.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the ledger side.
const (
	TypeTransactionPosted = "finance.transaction.posted"
	TypeTransactionVoided = "finance.transaction.voided"
	TypeTransferCreated   = "finance.transfer.created"
)

// Event types emitted by the social side.
const (
	TypeDebtCreated       = "social.debt.created"
	TypeDebtSettled       = "social.debt.settled"
	TypeDebtCancelled     = "social.debt.cancelled"
	TypeExpenseCreated    = "social.expense.created"
	TypeSettlementCreated = "social.settlement.created"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	TenantID      string          `json:"tenant_id"`
	CorrelationID string          `json:"correlation_id"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// New builds an event envelope, marshalling the payload.
func New(eventType, tenantID, correlationID string, payload any) (*Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		TenantID:      tenantID,
		CorrelationID: correlationID,
		Payload:       body,
		OccurredAt:    time.Now().UTC(),
	}, nil
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON parses an event from JSON bytes.
func FromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Publisher delivers events to whatever transport is configured.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }
func (NopPublisher) Close() error                          { return nil }

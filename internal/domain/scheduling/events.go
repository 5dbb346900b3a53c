package scheduling

import (
	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeReplacementCreditGenerated = "ReplacementCreditGenerated"
	EventTypeReplacementCreditConsumed  = "ReplacementCreditConsumed"

	AggregateTypeReplacementCredit = "ReplacementCredit"
)

// ReplacementCreditGeneratedEvent is raised when an appointment is converted
type ReplacementCreditGeneratedEvent struct {
	shared.BaseDomainEvent
	CreditID            uuid.UUID       `json:"credit_id"`
	SourceAppointmentID uuid.UUID       `json:"source_appointment_id"`
	DogID               uuid.UUID       `json:"dog_id"`
	ServiceType         ServiceType     `json:"service_type"`
	Value               decimal.Decimal `json:"value"`
}

// EventType returns the event type name
func (e *ReplacementCreditGeneratedEvent) EventType() string {
	return EventTypeReplacementCreditGenerated
}

// NewReplacementCreditGeneratedEvent creates a new ReplacementCreditGeneratedEvent
func NewReplacementCreditGeneratedEvent(c *ReplacementCredit) *ReplacementCreditGeneratedEvent {
	return &ReplacementCreditGeneratedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeReplacementCreditGenerated, AggregateTypeReplacementCredit, c.ID, c.TenantID),
		CreditID:            c.ID,
		SourceAppointmentID: c.SourceAppointmentID,
		DogID:               c.DogID,
		ServiceType:         c.ServiceType,
		Value:               c.Value,
	}
}

// ReplacementCreditConsumedEvent is raised when a credit is spent
type ReplacementCreditConsumedEvent struct {
	shared.BaseDomainEvent
	CreditID      uuid.UUID `json:"credit_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
}

// EventType returns the event type name
func (e *ReplacementCreditConsumedEvent) EventType() string {
	return EventTypeReplacementCreditConsumed
}

// NewReplacementCreditConsumedEvent creates a new ReplacementCreditConsumedEvent
func NewReplacementCreditConsumedEvent(c *ReplacementCredit) *ReplacementCreditConsumedEvent {
	e := &ReplacementCreditConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReplacementCreditConsumed, AggregateTypeReplacementCredit, c.ID, c.TenantID),
		CreditID:        c.ID,
	}
	if c.ConsumedBy != nil {
		e.AppointmentID = *c.ConsumedBy
	}
	return e
}

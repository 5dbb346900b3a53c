package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreditStatus is the status of a replacement credit
type CreditStatus string

const (
	CreditStatusAvailable CreditStatus = "available"
	CreditStatusConsumed  CreditStatus = "consumed"
)

// IsValid checks if the status is known
func (s CreditStatus) IsValid() bool {
	return s == CreditStatusAvailable || s == CreditStatusConsumed
}

// ReplacementCredit is a reusable credit minted from a paid appointment the
// dog never attended.
type ReplacementCredit struct {
	shared.TenantAggregateRoot
	SourceAppointmentID uuid.UUID       `json:"source_appointment_id"`
	DogID               uuid.UUID       `json:"dog_id"`
	GeneratedAt         time.Time       `json:"generated_at"`
	ServiceType         ServiceType     `json:"service_type"`
	Value               decimal.Decimal `json:"value"`
	Status              CreditStatus    `json:"status"`
	ConsumedAt          *time.Time      `json:"consumed_at,omitempty"`
	ConsumedBy          *uuid.UUID      `json:"consumed_by,omitempty"` // Appointment that used the credit
}

func newReplacementCredit(source *Appointment, at time.Time) *ReplacementCredit {
	c := &ReplacementCredit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(source.TenantID),
		SourceAppointmentID: source.ID,
		DogID:               source.DogID,
		GeneratedAt:         at,
		ServiceType:         source.ServiceType,
		Value:               source.Value,
		Status:              CreditStatusAvailable,
	}
	c.AddDomainEvent(NewReplacementCreditGeneratedEvent(c))
	return c
}

// IsAvailable returns true while the credit can still be used
func (c *ReplacementCredit) IsAvailable() bool {
	return c.Status == CreditStatusAvailable
}

// Consume spends the credit on another appointment
func (c *ReplacementCredit) Consume(appointmentID uuid.UUID, at time.Time) error {
	if !c.IsAvailable() {
		return ErrCreditNotAvailable
	}
	if appointmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Appointment ID cannot be empty")
	}
	c.Status = CreditStatusConsumed
	c.ConsumedAt = &at
	c.ConsumedBy = &appointmentID
	c.AddDomainEvent(NewReplacementCreditConsumedEvent(c))
	c.Touch()
	c.IncrementVersion()
	return nil
}

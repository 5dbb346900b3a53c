package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
)

// AppointmentFilter defines filtering options for appointment queries
type AppointmentFilter struct {
	shared.Filter
	DogID         *uuid.UUID
	ServiceType   *ServiceType
	Status        *AppointmentStatus
	PaymentStatus *PaymentStatus
	From          *time.Time
	Before        *time.Time // Exclusive upper bound on ScheduledAt
}

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// FindByIDForTenant finds an appointment by ID
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Appointment, error)

	// FindAllForTenant lists appointments with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AppointmentFilter) ([]Appointment, error)

	// FindCreditCandidates finds paid, unused, unreplaced appointments scheduled before the given instant
	FindCreditCandidates(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]Appointment, error)

	// TenantsWithCreditCandidates lists tenants that have at least one candidate
	TenantsWithCreditCandidates(ctx context.Context, before time.Time) ([]uuid.UUID, error)

	// Save creates or updates an appointment
	Save(ctx context.Context, appointment *Appointment) error
}

// CreditFilter defines filtering options for credit queries
type CreditFilter struct {
	shared.Filter
	DogID  *uuid.UUID
	Status *CreditStatus
}

// ReplacementCreditRepository defines the interface for credit persistence
type ReplacementCreditRepository interface {
	// FindByIDForTenant finds a credit by ID
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReplacementCredit, error)

	// FindAllForTenant lists credits with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CreditFilter) ([]ReplacementCredit, error)

	// CountForTenant counts credits matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter CreditFilter) (int64, error)

	// Create inserts a credit; a second credit for the same source appointment
	// returns shared.ErrAlreadyExists
	Create(ctx context.Context, credit *ReplacementCredit) error

	// Save updates a credit
	Save(ctx context.Context, credit *ReplacementCredit) error
}

package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
)

// Checkin records a dog arriving for a service at the front desk
type Checkin struct {
	shared.TenantAggregateRoot
	DogID        uuid.UUID `json:"dog_id"`
	CheckedInAt  time.Time `json:"checked_in_at"`
	ServiceLabel string    `json:"service_label"` // Free text, e.g. "Banho e Tosa"
}

// NewCheckin creates a check-in
func NewCheckin(tenantID, dogID uuid.UUID, at time.Time, label string) (*Checkin, error) {
	if dogID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOG", "Dog ID cannot be empty")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "Service label cannot be empty")
	}
	return &Checkin{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DogID:               dogID,
		CheckedInAt:         at,
		ServiceLabel:        label,
	}, nil
}

// CheckinRepository defines the interface for check-in persistence
type CheckinRepository interface {
	// FindByDog lists a dog's check-ins before the given instant
	FindByDog(ctx context.Context, tenantID, dogID uuid.UUID, before time.Time) ([]Checkin, error)

	// Create inserts a check-in
	Create(ctx context.Context, checkin *Checkin) error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/attendance"
)

// CheckinModel is the persistence model for front-desk check-ins
type CheckinModel struct {
	TenantAggregateModel
	DogID        uuid.UUID `gorm:"type:uuid;not null;index:idx_checkin_dog_time,priority:1"`
	CheckedInAt  time.Time `gorm:"not null;index:idx_checkin_dog_time,priority:2"`
	ServiceLabel string    `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (CheckinModel) TableName() string {
	return "checkins"
}

// ToDomain converts the model to a domain Checkin
func (m *CheckinModel) ToDomain() *attendance.Checkin {
	return &attendance.Checkin{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DogID:               m.DogID,
		CheckedInAt:         m.CheckedInAt,
		ServiceLabel:        m.ServiceLabel,
	}
}

// FromDomain populates the model from a domain Checkin
func (m *CheckinModel) FromDomain(c *attendance.Checkin) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.DogID = c.DogID
	m.CheckedInAt = c.CheckedInAt
	m.ServiceLabel = c.ServiceLabel
}

// AllModels lists every model for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&InvoiceModel{},
		&InvoiceLinkModel{},
		&StatementTransactionModel{},
		&ExpenseModel{},
		&AppointmentModel{},
		&ReplacementCreditModel{},
		&CheckinModel{},
	}
}

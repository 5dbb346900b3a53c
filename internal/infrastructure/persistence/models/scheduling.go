package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/shopspring/decimal"
)

// AppointmentModel is the persistence model for the Appointment aggregate root
type AppointmentModel struct {
	TenantAggregateModel
	DogID         uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ClientName    string                       `gorm:"type:varchar(200)"`
	ServiceType   scheduling.ServiceType       `gorm:"type:varchar(30);not null"`
	ScheduledAt   time.Time                    `gorm:"not null;index"`
	Value         decimal.Decimal              `gorm:"type:decimal(18,2);not null"`
	PaymentStatus scheduling.PaymentStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	Status        scheduling.AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	Used          bool                         `gorm:"not null;default:false"`
	Replaced      bool                         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts the model to a domain Appointment
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	return &scheduling.Appointment{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DogID:               m.DogID,
		ClientName:          m.ClientName,
		ServiceType:         m.ServiceType,
		ScheduledAt:         m.ScheduledAt,
		Value:               m.Value,
		PaymentStatus:       m.PaymentStatus,
		Status:              m.Status,
		Used:                m.Used,
		Replaced:            m.Replaced,
	}
}

// FromDomain populates the model from a domain Appointment
func (m *AppointmentModel) FromDomain(a *scheduling.Appointment) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.DogID = a.DogID
	m.ClientName = a.ClientName
	m.ServiceType = a.ServiceType
	m.ScheduledAt = a.ScheduledAt
	m.Value = a.Value
	m.PaymentStatus = a.PaymentStatus
	m.Status = a.Status
	m.Used = a.Used
	m.Replaced = a.Replaced
}

// ReplacementCreditModel is the persistence model for replacement credits.
// One credit per source appointment.
type ReplacementCreditModel struct {
	TenantAggregateModel
	SourceAppointmentID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	DogID               uuid.UUID               `gorm:"type:uuid;not null;index"`
	GeneratedAt         time.Time               `gorm:"not null"`
	ServiceType         scheduling.ServiceType  `gorm:"type:varchar(30);not null"`
	Value               decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Status              scheduling.CreditStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	ConsumedAt          *time.Time
	ConsumedBy          *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ReplacementCreditModel) TableName() string {
	return "replacement_credits"
}

// ToDomain converts the model to a domain ReplacementCredit
func (m *ReplacementCreditModel) ToDomain() *scheduling.ReplacementCredit {
	return &scheduling.ReplacementCredit{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		SourceAppointmentID: m.SourceAppointmentID,
		DogID:               m.DogID,
		GeneratedAt:         m.GeneratedAt,
		ServiceType:         m.ServiceType,
		Value:               m.Value,
		Status:              m.Status,
		ConsumedAt:          m.ConsumedAt,
		ConsumedBy:          m.ConsumedBy,
	}
}

// FromDomain populates the model from a domain ReplacementCredit
func (m *ReplacementCreditModel) FromDomain(c *scheduling.ReplacementCredit) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.SourceAppointmentID = c.SourceAppointmentID
	m.DogID = c.DogID
	m.GeneratedAt = c.GeneratedAt
	m.ServiceType = c.ServiceType
	m.Value = c.Value
	m.Status = c.Status
	m.ConsumedAt = c.ConsumedAt
	m.ConsumedBy = c.ConsumedBy
}

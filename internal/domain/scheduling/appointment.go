package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ServiceType is the kind of service booked for a dog
type ServiceType string

const (
	ServiceTypeDayCare    ServiceType = "day_care"
	ServiceTypeBanho      ServiceType = "banho"
	ServiceTypeTosa       ServiceType = "tosa"
	ServiceTypeBanhoTosa  ServiceType = "banho_tosa"
	ServiceTypeHospedagem ServiceType = "hospedagem"
	ServiceTypeTransporte ServiceType = "transporte"
)

// AllServiceTypes lists every bookable service type
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceTypeDayCare,
		ServiceTypeBanho,
		ServiceTypeTosa,
		ServiceTypeBanhoTosa,
		ServiceTypeHospedagem,
		ServiceTypeTransporte,
	}
}

// IsValid checks if the service type is known
func (s ServiceType) IsValid() bool {
	for _, st := range AllServiceTypes() {
		if s == st {
			return true
		}
	}
	return false
}

// String returns the string representation of ServiceType
func (s ServiceType) String() string {
	return string(s)
}

// PaymentStatus tracks whether an appointment has been paid for
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPaid
}

// AppointmentStatus is the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// IsValid checks if the appointment status is known
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a scheduled service occurrence (aggregate root)
type Appointment struct {
	shared.TenantAggregateRoot
	DogID         uuid.UUID         `json:"dog_id"`
	ClientName    string            `json:"client_name"`
	ServiceType   ServiceType       `json:"service_type"`
	ScheduledAt   time.Time         `json:"scheduled_at"`
	Value         decimal.Decimal   `json:"value"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Status        AppointmentStatus `json:"status"`
	Used          bool              `json:"used"`
	Replaced      bool              `json:"replaced"` // Converted into a replacement credit
}

// NewAppointment creates a scheduled, unpaid appointment
func NewAppointment(
	tenantID, dogID uuid.UUID,
	clientName string,
	serviceType ServiceType,
	scheduledAt time.Time,
	value valueobject.Money,
) (*Appointment, error) {
	if dogID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOG", "Dog ID cannot be empty")
	}
	if !serviceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SERVICE_TYPE", "Unknown service type")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Appointment value cannot be negative")
	}

	return &Appointment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DogID:               dogID,
		ClientName:          strings.TrimSpace(clientName),
		ServiceType:         serviceType,
		ScheduledAt:         scheduledAt,
		Value:               value.Amount(),
		PaymentStatus:       PaymentStatusPending,
		Status:              AppointmentStatusScheduled,
	}, nil
}

// IsPaid returns true once payment is recorded
func (a *Appointment) IsPaid() bool {
	return a.PaymentStatus == PaymentStatusPaid
}

// IsCancelled returns true when the appointment was called off
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// QualifiesForCredit reports whether the appointment was paid, never used,
// not yet converted and its calendar day is before today in loc.
func (a *Appointment) QualifiesForCredit(today time.Time, loc *time.Location) bool {
	return a.IsPaid() &&
		!a.Used &&
		!a.Replaced &&
		shared.BeforeDay(a.ScheduledAt, today, loc)
}

// MarkPaid records payment
func (a *Appointment) MarkPaid() {
	a.PaymentStatus = PaymentStatusPaid
	a.Touch()
	a.IncrementVersion()
}

// MarkUsed records that the dog attended the service
func (a *Appointment) MarkUsed() error {
	if a.Replaced {
		return ErrAlreadyReplaced
	}
	a.Used = true
	a.Status = AppointmentStatusCompleted
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Cancel calls the appointment off
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
	a.Touch()
	a.IncrementVersion()
}

func (a *Appointment) markReplaced() {
	a.Replaced = true
	a.Touch()
	a.IncrementVersion()
}

// GetValueMoney returns the value as Money
func (a *Appointment) GetValueMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(a.Value)
}

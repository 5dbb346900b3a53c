package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/shopspring/decimal"
)

// CreditResponse represents a replacement credit in API responses
type CreditResponse struct {
	ID                  uuid.UUID       `json:"id"`
	TenantID            uuid.UUID       `json:"tenant_id"`
	SourceAppointmentID uuid.UUID       `json:"source_appointment_id"`
	DogID               uuid.UUID       `json:"dog_id"`
	ServiceType         string          `json:"service_type"`
	Value               decimal.Decimal `json:"value"`
	Status              string          `json:"status"`
	GeneratedAt         time.Time       `json:"generated_at"`
	ConsumedAt          *time.Time      `json:"consumed_at,omitempty"`
	ConsumedBy          *uuid.UUID      `json:"consumed_by,omitempty"`
}

// ToCreditResponse converts the domain credit to its response
func ToCreditResponse(c *scheduling.ReplacementCredit) CreditResponse {
	return CreditResponse{
		ID:                  c.ID,
		TenantID:            c.TenantID,
		SourceAppointmentID: c.SourceAppointmentID,
		DogID:               c.DogID,
		ServiceType:         c.ServiceType.String(),
		Value:               c.Value,
		Status:              string(c.Status),
		GeneratedAt:         c.GeneratedAt,
		ConsumedAt:          c.ConsumedAt,
		ConsumedBy:          c.ConsumedBy,
	}
}

// ScanResult reports one credit scan
type ScanResult struct {
	TenantID  uuid.UUID        `json:"tenant_id"`
	Generated int              `json:"generated"`
	Skipped   int              `json:"skipped"` // Candidates another run converted first
	Credits   []CreditResponse `json:"credits"`
}

// ScanRequest is the optional body of a manual scan
type ScanRequest struct {
	Today *time.Time `json:"today"`
}

// ConsumeCreditRequest spends a credit on an appointment
type ConsumeCreditRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" binding:"required"`
}

// CreditListFilter defines query parameters for listing credits
type CreditListFilter struct {
	DogID    string `form:"dog_id"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

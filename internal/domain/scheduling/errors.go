package scheduling

import "github.com/pethotel/backend/internal/domain/shared"

// CodeCreditNotAvailable is returned when a consumed credit is used again
const CodeCreditNotAvailable = "CREDIT_NOT_AVAILABLE"

var (
	ErrAppointmentNotFound = shared.NewDomainError("NOT_FOUND", "Appointment not found")
	ErrCreditNotFound      = shared.NewDomainError("NOT_FOUND", "Replacement credit not found")
	ErrCreditNotAvailable  = shared.NewDomainError(CodeCreditNotAvailable, "Replacement credit has already been consumed")
	ErrAlreadyReplaced     = shared.NewDomainError("INVALID_STATE", "Appointment was already converted into a credit")
	ErrNotEligible         = shared.NewDomainError("INVALID_STATE", "Appointment does not qualify for a replacement credit")
)

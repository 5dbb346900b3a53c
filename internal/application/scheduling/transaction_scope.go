package scheduling

import (
	"context"

	"github.com/pethotel/backend/internal/domain/scheduling"
)

// TransactionScope runs several repository operations atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the scheduling repositories bound to one
// database transaction. A conversion writes the new credit and flags its
// source appointment, and consuming a credit writes the credit and marks the
// target appointment.
type TransactionalRepositories interface {
	AppointmentRepo() scheduling.AppointmentRepository
	CreditRepo() scheduling.ReplacementCreditRepository
}

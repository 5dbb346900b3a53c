package finance

import (
	"context"

	"github.com/pethotel/backend/internal/domain/finance"
)

// TransactionScope runs several repository operations atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the ledger repositories bound to one
// database transaction. A link touches an invoice and a statement transaction
// and posting touches an invoice and an expense, so these are always written
// together.
type TransactionalRepositories interface {
	InvoiceRepo() finance.InvoiceRepository
	StatementTransactionRepo() finance.StatementTransactionRepository
	ExpenseRepo() finance.ExpenseRepository
}

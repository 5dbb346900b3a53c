package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	Status       *InvoiceStatus
	PostingState *PostingState
	Payee        string
	DueFrom      *time.Time
	DueTo        *time.Time
}

// InvoiceRepository defines the interface for invoice persistence.
// Links are loaded and saved with their invoice.
type InvoiceRepository interface {
	// FindByIDForTenant finds an invoice with its links
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindAllForTenant lists invoices for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)

	// CountForTenant counts invoices matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (int64, error)

	// FindPendingPosting finds settled invoices whose expense has not been written, across tenants
	FindPendingPosting(ctx context.Context, limit int) ([]Invoice, error)

	// FindSettledToday finds settled_today invoices settled before the given instant, across tenants
	FindSettledToday(ctx context.Context, settledBefore time.Time) ([]Invoice, error)

	// Save creates or updates an invoice and replaces its link rows
	Save(ctx context.Context, invoice *Invoice) error
}

// TransactionLinkTotal compares a transaction's running total with its link rows
type TransactionLinkTotal struct {
	TransactionID uuid.UUID
	TenantID      uuid.UUID
	ReferenceCode string
	Amount        decimal.Decimal
	LinkedAmount  decimal.Decimal
	LinkSum       decimal.Decimal
}

// Consistent reports whether the running total matches the link rows and
// stays within the transaction amount
func (t TransactionLinkTotal) Consistent() bool {
	return t.LinkedAmount.Equal(t.LinkSum) &&
		!t.LinkedAmount.IsNegative() &&
		t.LinkedAmount.LessThanOrEqual(t.Amount.Abs())
}

// StatementTransactionFilter defines filtering options for transaction queries
type StatementTransactionFilter struct {
	shared.Filter
	Direction *TransactionDirection
	FromDate  *time.Time
	ToDate    *time.Time
}

// StatementTransactionRepository defines the interface for bank-row persistence
type StatementTransactionRepository interface {
	// FindByReferenceCode resolves the human-entered code for a tenant
	FindByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (*StatementTransaction, error)

	// FindByIDForTenant finds a transaction by ID
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StatementTransaction, error)

	// FindAllForTenant lists transactions for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter StatementTransactionFilter) ([]StatementTransaction, error)

	// ExistsByReferenceCode checks whether the code is taken for a tenant
	ExistsByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	// LinkTotals returns the running total and link-row sum for every linked transaction
	LinkTotals(ctx context.Context) ([]TransactionLinkTotal, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, txn *StatementTransaction) error
}

// ExpenseRepository defines the interface for expense persistence.
// Expenses are append-only.
type ExpenseRepository interface {
	// Create inserts an expense; a second expense for the same
	// (invoice, round) returns shared.ErrAlreadyExists
	Create(ctx context.Context, expense *Expense) error

	// FindBySource finds the expense of one posting round
	FindBySource(ctx context.Context, tenantID, invoiceID uuid.UUID, round int) (*Expense, error)

	// FindAllForTenant lists expenses for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) ([]Expense, error)

	// CountForTenant counts expenses matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ExpenseFilter) (int64, error)
}

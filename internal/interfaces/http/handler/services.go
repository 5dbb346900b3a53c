package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	attendanceapp "github.com/pethotel/backend/internal/application/attendance"
	financeapp "github.com/pethotel/backend/internal/application/finance"
	schedulingapp "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/pethotel/backend/internal/domain/finance"
)

// The interfaces below are the slices of the application services each
// handler calls. The concrete services satisfy them.

// InvoiceUseCases covers invoice maintenance and expense listing
type InvoiceUseCases interface {
	CreateInvoice(ctx context.Context, tenantID uuid.UUID, req financeapp.InvoiceRequest) (*financeapp.InvoiceResponse, error)
	GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*financeapp.InvoiceResponse, error)
	ListInvoices(ctx context.Context, tenantID uuid.UUID, f financeapp.InvoiceListFilter) ([]financeapp.InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, tenantID, id uuid.UUID, req financeapp.InvoiceRequest) (*financeapp.InvoiceResponse, error)
	SuspendInvoice(ctx context.Context, tenantID, id uuid.UUID) (*financeapp.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, tenantID, id uuid.UUID) (*financeapp.InvoiceResponse, error)
	ListExpenses(ctx context.Context, tenantID uuid.UUID, f financeapp.ExpenseListFilter) ([]financeapp.ExpenseResponse, int64, error)
}

// ReconciliationUseCases covers transaction lookup and invoice links
type ReconciliationUseCases interface {
	LookupTransaction(ctx context.Context, tenantID uuid.UUID, code string) (*finance.TransactionLookup, error)
	Link(ctx context.Context, tenantID, invoiceID uuid.UUID, req financeapp.LinkTransactionRequest) (*financeapp.LinkResult, error)
	Unlink(ctx context.Context, tenantID, invoiceID uuid.UUID, index int) (*financeapp.InvoiceResponse, error)
}

// PostingUseCases posts settled invoices to the expense ledger
type PostingUseCases interface {
	PostIfSettled(ctx context.Context, tenantID, invoiceID uuid.UUID) (*financeapp.PostResult, error)
}

// SweepRunner runs the posting recovery sweep
type SweepRunner interface {
	Sweep(ctx context.Context, today time.Time) (*financeapp.SweepResult, error)
}

// TransactionUseCases covers bank statement intake
type TransactionUseCases interface {
	ImportTransaction(ctx context.Context, tenantID uuid.UUID, req financeapp.ImportTransactionRequest) (*financeapp.TransactionResponse, error)
	GetTransaction(ctx context.Context, tenantID uuid.UUID, code string) (*financeapp.TransactionResponse, error)
}

// CreditUseCases covers replacement credits
type CreditUseCases interface {
	Today() time.Time
	Scan(ctx context.Context, tenantID uuid.UUID, today time.Time) (*schedulingapp.ScanResult, error)
	ConsumeCredit(ctx context.Context, tenantID, creditID, appointmentID uuid.UUID) (*schedulingapp.CreditResponse, error)
	ListCredits(ctx context.Context, tenantID uuid.UUID, f schedulingapp.CreditListFilter) ([]schedulingapp.CreditResponse, int64, error)
}

// AttendanceUseCases covers check-ins and gap counts
type AttendanceUseCases interface {
	GetGaps(ctx context.Context, tenantID, dogID uuid.UUID, today time.Time) (*attendanceapp.GapsResponse, error)
	RecordCheckin(ctx context.Context, tenantID uuid.UUID, req attendanceapp.RecordCheckinRequest) (*attendanceapp.CheckinResponse, error)
}

var (
	_ InvoiceUseCases        = (*financeapp.InvoiceService)(nil)
	_ ReconciliationUseCases = (*financeapp.ReconciliationService)(nil)
	_ PostingUseCases        = (*financeapp.PostingService)(nil)
	_ SweepRunner            = (*financeapp.PostingSweep)(nil)
	_ TransactionUseCases    = (*financeapp.TransactionService)(nil)
	_ CreditUseCases         = (*schedulingapp.CreditService)(nil)
	_ AttendanceUseCases     = (*attendanceapp.AttendanceService)(nil)
)

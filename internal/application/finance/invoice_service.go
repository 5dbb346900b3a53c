package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService provides invoice CRUD and expense listing
type InvoiceService struct {
	invoiceRepo finance.InvoiceRepository
	expenseRepo finance.ExpenseRepository
	scope       TransactionScope
	publisher   shared.EventPublisher
	clock       func() time.Time
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	expenseRepo finance.ExpenseRepository,
	scope TransactionScope,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
		scope:       scope,
		publisher:   publisher,
		clock:       time.Now,
		logger:      logger,
	}
}

// InvoiceRequest carries the directly editable fields of an invoice
type InvoiceRequest struct {
	Category        string           `json:"category" binding:"required"`
	Payee           string           `json:"payee" binding:"required"`
	Reference       string           `json:"reference"`
	DueDate         *time.Time       `json:"due_date"`
	FaceAmount      decimal.Decimal  `json:"face_amount" binding:"required"`
	LateFee         *decimal.Decimal `json:"late_fee"`
	PaymentMethod   string           `json:"payment_method"`
	AttachmentRef   string           `json:"attachment_ref"`
	NegotiationNote string           `json:"negotiation_note"`
}

func (r InvoiceRequest) details() finance.InvoiceDetails {
	lateFee := valueobject.ZeroBRL()
	if r.LateFee != nil {
		lateFee = valueobject.NewMoneyBRL(*r.LateFee)
	}
	return finance.InvoiceDetails{
		Category:        r.Category,
		Payee:           r.Payee,
		Reference:       r.Reference,
		DueDate:         r.DueDate,
		FaceAmount:      valueobject.NewMoneyBRL(r.FaceAmount),
		LateFee:         lateFee,
		PaymentMethod:   r.PaymentMethod,
		AttachmentRef:   r.AttachmentRef,
		NegotiationNote: r.NegotiationNote,
	}
}

// InvoiceListFilter defines query parameters for listing invoices
type InvoiceListFilter struct {
	Status       string `form:"status"`
	PostingState string `form:"posting_state"`
	Payee        string `form:"payee"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// CreateInvoice registers a new pending invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req InvoiceRequest) (*InvoiceResponse, error) {
	inv, err := finance.NewInvoice(tenantID, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	publishAndClear(ctx, s.publisher, s.logger, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetInvoice returns one invoice with its links
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices lists invoices for a tenant and returns the total count
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID uuid.UUID, f InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	filter := finance.InvoiceFilter{Filter: pageFilter(f.Page, f.PageSize), Payee: f.Payee}
	if f.Status != "" {
		status := finance.InvoiceStatus(f.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
		}
		filter.Status = &status
	}
	if f.PostingState != "" {
		state := finance.PostingState(f.PostingState)
		if !state.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_POSTING_STATE", "Unknown posting state")
		}
		filter.PostingState = &state
	}

	invoices, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, ToInvoiceResponse(&invoices[i]))
	}
	return out, total, nil
}

// UpdateInvoice applies a direct edit
func (s *InvoiceService) UpdateInvoice(ctx context.Context, tenantID, id uuid.UUID, req InvoiceRequest) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, func(inv *finance.Invoice) error {
		return inv.UpdateDetails(req.details(), s.clock())
	})
}

// SuspendInvoice moves the invoice to suspended
func (s *InvoiceService) SuspendInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, (*finance.Invoice).Suspend)
}

// CancelInvoice moves the invoice to cancelled
func (s *InvoiceService) CancelInvoice(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, tenantID, id, (*finance.Invoice).Cancel)
}

// mutate loads and saves the invoice under the row lock, so a concurrent link
// is never overwritten by an edit read before it.
func (s *InvoiceService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*finance.Invoice) error) (*InvoiceResponse, error) {
	var inv *finance.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		inv, err = repos.InvoiceRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := fn(inv); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	publishAndClear(ctx, s.publisher, s.logger, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ExpenseListFilter defines query parameters for listing expenses
type ExpenseListFilter struct {
	InvoiceID string     `form:"invoice_id"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// ListExpenses lists posted expenses and returns the total count
func (s *InvoiceService) ListExpenses(ctx context.Context, tenantID uuid.UUID, f ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	filter := finance.ExpenseFilter{Filter: pageFilter(f.Page, f.PageSize), FromDate: f.FromDate, ToDate: f.ToDate}
	filter.OrderBy = "posting_date"
	if f.InvoiceID != "" {
		id, err := uuid.Parse(f.InvoiceID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_ID", "Invalid invoice ID format")
		}
		filter.SourceInvoiceID = &id
	}

	expenses, err := s.expenseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, ToExpenseResponse(&expenses[i]))
	}
	return out, total, nil
}

func pageFilter(page, pageSize int) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 && pageSize <= 100 {
		f.PageSize = pageSize
	}
	return f
}

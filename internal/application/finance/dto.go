package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// InvoiceLinkResponse represents a link in API responses
type InvoiceLinkResponse struct {
	Index           int             `json:"index"`
	ID              uuid.UUID       `json:"id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	Amount          decimal.Decimal `json:"amount"`
	LinkedAt        time.Time       `json:"linked_at"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	TenantID        uuid.UUID             `json:"tenant_id"`
	Category        string                `json:"category"`
	Payee           string                `json:"payee"`
	Reference       string                `json:"reference"`
	DueDate         *time.Time            `json:"due_date,omitempty"`
	FaceAmount      decimal.Decimal       `json:"face_amount"`
	LateFee         decimal.Decimal       `json:"late_fee"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	ExpenseAmount   decimal.Decimal       `json:"expense_amount"`
	SettledAmount   decimal.Decimal       `json:"settled_amount"`
	PaymentMethod   string                `json:"payment_method"`
	AttachmentRef   string                `json:"attachment_ref,omitempty"`
	NegotiationNote string                `json:"negotiation_note,omitempty"`
	Status          string                `json:"status"`
	SettlementDate  *time.Time            `json:"settlement_date,omitempty"`
	PostingState    string                `json:"posting_state"`
	PostedToExpense bool                  `json:"posted_to_expense"`
	PostingRound    int                   `json:"posting_round"`
	Links           []InvoiceLinkResponse `json:"links"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Version         int                   `json:"version"`
}

// ToInvoiceResponse converts the domain invoice to its response
func ToInvoiceResponse(inv *finance.Invoice) InvoiceResponse {
	links := make([]InvoiceLinkResponse, 0, len(inv.Links))
	for i, l := range inv.Links {
		links = append(links, InvoiceLinkResponse{
			Index:           i,
			ID:              l.ID,
			TransactionID:   l.TransactionID,
			TransactionCode: l.TransactionCode,
			Amount:          l.Amount,
			LinkedAt:        l.LinkedAt,
		})
	}
	return InvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		Category:        inv.Category,
		Payee:           inv.Payee,
		Reference:       inv.Reference,
		DueDate:         inv.DueDate,
		FaceAmount:      inv.FaceAmount,
		LateFee:         inv.LateFee,
		RemainingAmount: inv.RemainingAmount(),
		ExpenseAmount:   inv.ExpenseAmount(),
		SettledAmount:   inv.SettledAmount,
		PaymentMethod:   inv.PaymentMethod,
		AttachmentRef:   inv.AttachmentRef,
		NegotiationNote: inv.NegotiationNote,
		Status:          inv.Status.String(),
		SettlementDate:  inv.SettlementDate,
		PostingState:    string(inv.PostingState),
		PostedToExpense: inv.PostedToExpense(),
		PostingRound:    inv.PostingRound,
		Links:           links,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// ExpenseResponse represents a posted expense in API responses
type ExpenseResponse struct {
	ID              uuid.UUID                `json:"id"`
	TenantID        uuid.UUID                `json:"tenant_id"`
	PostingDate     time.Time                `json:"posting_date"`
	Category        string                   `json:"category"`
	Subcategory     string                   `json:"subcategory"`
	Description     string                   `json:"description"`
	Amount          decimal.Decimal          `json:"amount"`
	PaymentMethod   string                   `json:"payment_method"`
	Payee           string                   `json:"payee"`
	SourceInvoiceID uuid.UUID                `json:"source_invoice_id"`
	PostingRound    int                      `json:"posting_round"`
	AuditNote       finance.ExpenseAuditNote `json:"audit_note"`
	CreatedAt       time.Time                `json:"created_at"`
}

// ToExpenseResponse converts the domain expense to its response
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ID,
		TenantID:        e.TenantID,
		PostingDate:     e.PostingDate,
		Category:        e.Category,
		Subcategory:     e.Subcategory,
		Description:     e.Description,
		Amount:          e.Amount,
		PaymentMethod:   e.PaymentMethod,
		Payee:           e.Payee,
		SourceInvoiceID: e.SourceInvoiceID,
		PostingRound:    e.PostingRound,
		AuditNote:       e.AuditNote,
		CreatedAt:       e.CreatedAt,
	}
}

// TransactionResponse represents a statement transaction in API responses
type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	ReferenceCode string          `json:"reference_code"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	LinkedAmount  decimal.Decimal `json:"linked_amount"`
	Available     decimal.Decimal `json:"available"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
}

// ToTransactionResponse converts the domain transaction to its response.
// Available is left at zero when the stored totals are inconsistent.
func ToTransactionResponse(t *finance.StatementTransaction) TransactionResponse {
	available, _ := t.Available()
	return TransactionResponse{
		ID:            t.ID,
		ReferenceCode: t.ReferenceCode,
		Direction:     t.Direction.String(),
		Amount:        t.Amount,
		LinkedAmount:  t.LinkedAmount,
		Available:     available,
		Date:          t.Date,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
	}
}

// LinkTransactionRequest asks to link a statement transaction to an invoice
type LinkTransactionRequest struct {
	TransactionCode string           `json:"transaction_code" binding:"required"`
	Mode            string           `json:"mode" binding:"required,oneof=full partial"`
	Amount          *decimal.Decimal `json:"amount"`
}

// LinkResult reports a completed link and, when it settled the invoice, the
// posting outcome
type LinkResult struct {
	Invoice   InvoiceResponse     `json:"invoice"`
	Link      InvoiceLinkResponse `json:"link"`
	Settled   bool                `json:"settled"`
	Posted    bool                `json:"posted"`
	ExpenseID *uuid.UUID          `json:"expense_id,omitempty"`
}

// PostResult reports the outcome of PostIfSettled
type PostResult struct {
	Invoice   InvoiceResponse `json:"invoice"`
	Expense   ExpenseResponse `json:"expense"`
	Recovered bool            `json:"recovered"` // The expense already existed from an interrupted run
}

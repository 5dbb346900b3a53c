package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LinkSnapshot is an audit copy of a link at posting time
type LinkSnapshot struct {
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	Amount          decimal.Decimal `json:"amount"`
	LinkedAt        time.Time       `json:"linked_at"`
}

// ExpenseAuditNote is stored as JSON beside the expense
type ExpenseAuditNote struct {
	OriginalDueDate *time.Time      `json:"original_due_date,omitempty"`
	DaysLate        int             `json:"days_late"`
	LateFee         decimal.Decimal `json:"late_fee"`
	Links           []LinkSnapshot  `json:"links"`
}

// Expense is the immutable record posted when an invoice is fully settled.
// (SourceInvoiceID, PostingRound) identifies the settlement it came from.
type Expense struct {
	shared.TenantAggregateRoot
	PostingDate     time.Time        `json:"posting_date"`
	Category        string           `json:"category"`
	Subcategory     string           `json:"subcategory"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	PaymentMethod   string           `json:"payment_method"`
	Payee           string           `json:"payee"`
	SourceInvoiceID uuid.UUID        `json:"source_invoice_id"`
	PostingRound    int              `json:"posting_round"`
	AuditNote       ExpenseAuditNote `json:"audit_note"`
}

// GetAmountMoney returns the expense amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(e.Amount)
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	SourceInvoiceID *uuid.UUID
	FromDate        *time.Time
	ToDate          *time.Time
}

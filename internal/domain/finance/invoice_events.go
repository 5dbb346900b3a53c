package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeInvoiceCreated      = "InvoiceCreated"
	EventTypeInvoiceLinked       = "InvoiceLinked"
	EventTypeInvoiceSettled      = "InvoiceSettled"
	EventTypeInvoiceLinkReversed = "InvoiceLinkReversed"
	EventTypeInvoicePosted       = "InvoicePosted"
	EventTypeTransactionImported = "StatementTransactionImported"

	AggregateTypeInvoice      = "Invoice"
	AggregateTypeStatementTxn = "StatementTransaction"
)

// InvoiceCreatedEvent is raised when a new invoice is registered
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID       `json:"invoice_id"`
	Payee      string          `json:"payee"`
	FaceAmount decimal.Decimal `json:"face_amount"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return EventTypeInvoiceCreated
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		Payee:           inv.Payee,
		FaceAmount:      inv.FaceAmount,
		DueDate:         inv.DueDate,
	}
}

// InvoiceLinkedEvent is raised when part of a transaction is linked to an invoice
type InvoiceLinkedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	Amount          decimal.Decimal `json:"amount"`
	SettledAmount   decimal.Decimal `json:"settled_amount"`
}

// EventType returns the event type name
func (e *InvoiceLinkedEvent) EventType() string {
	return EventTypeInvoiceLinked
}

// NewInvoiceLinkedEvent creates a new InvoiceLinkedEvent
func NewInvoiceLinkedEvent(inv *Invoice, link InvoiceLink) *InvoiceLinkedEvent {
	return &InvoiceLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceLinked, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		TransactionID:   link.TransactionID,
		TransactionCode: link.TransactionCode,
		Amount:          link.Amount,
		SettledAmount:   inv.SettledAmount,
	}
}

// InvoiceSettledEvent is raised when the settled amount reaches the face amount
type InvoiceSettledEvent struct {
	shared.BaseDomainEvent
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	FaceAmount     decimal.Decimal `json:"face_amount"`
	SettledAmount  decimal.Decimal `json:"settled_amount"`
	SettlementDate time.Time       `json:"settlement_date"`
	PostingRound   int             `json:"posting_round"`
}

// EventType returns the event type name
func (e *InvoiceSettledEvent) EventType() string {
	return EventTypeInvoiceSettled
}

// NewInvoiceSettledEvent creates a new InvoiceSettledEvent
func NewInvoiceSettledEvent(inv *Invoice) *InvoiceSettledEvent {
	settledAt := time.Now()
	if inv.SettlementDate != nil {
		settledAt = *inv.SettlementDate
	}
	return &InvoiceSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSettled, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		FaceAmount:      inv.FaceAmount,
		SettledAmount:   inv.SettledAmount,
		SettlementDate:  settledAt,
		PostingRound:    inv.PostingRound,
	}
}

// InvoiceLinkReversedEvent is raised when a link is removed from an invoice
type InvoiceLinkReversedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	SettledAmount   decimal.Decimal `json:"settled_amount"`
	ReopenedPosting bool            `json:"reopened_posting"` // A settlement (posted or pending) was undone
}

// EventType returns the event type name
func (e *InvoiceLinkReversedEvent) EventType() string {
	return EventTypeInvoiceLinkReversed
}

// NewInvoiceLinkReversedEvent creates a new InvoiceLinkReversedEvent
func NewInvoiceLinkReversedEvent(inv *Invoice, link InvoiceLink, reopened bool) *InvoiceLinkReversedEvent {
	return &InvoiceLinkReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceLinkReversed, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		TransactionID:   link.TransactionID,
		Amount:          link.Amount,
		SettledAmount:   inv.SettledAmount,
		ReopenedPosting: reopened,
	}
}

// InvoicePostedEvent is raised once the settlement expense is recorded
type InvoicePostedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	ExpenseID     uuid.UUID       `json:"expense_id"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
	PostingRound  int             `json:"posting_round"`
}

// EventType returns the event type name
func (e *InvoicePostedEvent) EventType() string {
	return EventTypeInvoicePosted
}

// NewInvoicePostedEvent creates a new InvoicePostedEvent
func NewInvoicePostedEvent(inv *Invoice, expenseID uuid.UUID) *InvoicePostedEvent {
	return &InvoicePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePosted, AggregateTypeInvoice, inv.ID, inv.TenantID),
		InvoiceID:       inv.ID,
		ExpenseID:       expenseID,
		ExpenseAmount:   inv.ExpenseAmount(),
		PostingRound:    inv.PostingRound,
	}
}

// StatementTransactionImportedEvent is raised when a bank row is registered
type StatementTransactionImportedEvent struct {
	shared.BaseDomainEvent
	TransactionID uuid.UUID            `json:"transaction_id"`
	ReferenceCode string               `json:"reference_code"`
	Direction     TransactionDirection `json:"direction"`
	Amount        decimal.Decimal      `json:"amount"`
}

// EventType returns the event type name
func (e *StatementTransactionImportedEvent) EventType() string {
	return EventTypeTransactionImported
}

// NewStatementTransactionImportedEvent creates a new StatementTransactionImportedEvent
func NewStatementTransactionImportedEvent(txn *StatementTransaction) *StatementTransactionImportedEvent {
	return &StatementTransactionImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionImported, AggregateTypeStatementTxn, txn.ID, txn.TenantID),
		TransactionID:   txn.ID,
		ReferenceCode:   txn.ReferenceCode,
		Direction:       txn.Direction,
		Amount:          txn.Amount,
	}
}

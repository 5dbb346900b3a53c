package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle status of a payable invoice
type InvoiceStatus string

const (
	InvoiceStatusPending      InvoiceStatus = "pending"
	InvoiceStatusSettledToday InvoiceStatus = "settled_today" // Fully settled during the current business day
	InvoiceStatusSettled      InvoiceStatus = "settled"       // Fully settled on an earlier day
	InvoiceStatusSuspended    InvoiceStatus = "suspended"
	InvoiceStatusCancelled    InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusSettledToday, InvoiceStatusSettled,
		InvoiceStatusSuspended, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsSettled returns true for both settled statuses
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoiceStatusSettledToday || s == InvoiceStatusSettled
}

// IsAdministrative returns true for the terminal states set by direct edit
func (s InvoiceStatus) IsAdministrative() bool {
	return s == InvoiceStatusSuspended || s == InvoiceStatusCancelled
}

// PostingState tracks the two-phase expense posting of a settled invoice
type PostingState string

const (
	PostingStateNone        PostingState = "none"
	PostingStatePendingPost PostingState = "pending_post" // Settled, expense not yet written
	PostingStatePosted      PostingState = "posted"
)

// IsValid checks if the posting state is known
func (p PostingState) IsValid() bool {
	switch p {
	case PostingStateNone, PostingStatePendingPost, PostingStatePosted:
		return true
	}
	return false
}

// InvoiceLink ties part of a statement transaction to an invoice.
// Links are owned by the invoice and addressed by their list position.
type InvoiceLink struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	TransactionID   uuid.UUID       `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	Amount          decimal.Decimal `json:"amount"`
	LinkedAt        time.Time       `json:"linked_at"`
}

// InvoiceDetails holds the fields a user edits directly on an invoice
type InvoiceDetails struct {
	Category        string
	Payee           string
	Reference       string
	DueDate         *time.Time
	FaceAmount      valueobject.Money
	LateFee         valueobject.Money
	PaymentMethod   string
	AttachmentRef   string
	NegotiationNote string
}

func (d InvoiceDetails) validate() error {
	if strings.TrimSpace(d.Category) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Invoice category cannot be empty")
	}
	if strings.TrimSpace(d.Payee) == "" {
		return shared.NewDomainError("INVALID_PAYEE", "Invoice payee cannot be empty")
	}
	if d.FaceAmount.IsNegative() {
		return shared.NewDomainError(CodeInvalidAmount, "Face amount cannot be negative")
	}
	if d.LateFee.IsNegative() {
		return shared.NewDomainError(CodeInvalidAmount, "Late fee cannot be negative")
	}
	return nil
}

// Invoice is a payable obligation (aggregate root).
// Invariant: 0 <= SettledAmount <= FaceAmount.
type Invoice struct {
	shared.TenantAggregateRoot
	Category        string          `json:"category"`
	Payee           string          `json:"payee"`
	Reference       string          `json:"reference"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	FaceAmount      decimal.Decimal `json:"face_amount"`
	LateFee         decimal.Decimal `json:"late_fee"`
	PaymentMethod   string          `json:"payment_method"`
	AttachmentRef   string          `json:"attachment_ref,omitempty"`
	NegotiationNote string          `json:"negotiation_note,omitempty"`
	Status          InvoiceStatus   `json:"status"`
	SettledAmount   decimal.Decimal `json:"settled_amount"`
	SettlementDate  *time.Time      `json:"settlement_date,omitempty"`
	PostingState    PostingState    `json:"posting_state"`
	PostingRound    int             `json:"posting_round"` // Incremented whenever a settlement is undone
	Links           []InvoiceLink   `json:"links"`
}

// NewInvoice creates a pending invoice
func NewInvoice(tenantID uuid.UUID, details InvoiceDetails) (*Invoice, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              InvoiceStatusPending,
		SettledAmount:       decimal.Zero,
		PostingState:        PostingStateNone,
		PostingRound:        1,
		Links:               make([]InvoiceLink, 0),
	}
	inv.applyDetails(details)
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

func (i *Invoice) applyDetails(d InvoiceDetails) {
	i.Category = strings.TrimSpace(d.Category)
	i.Payee = strings.TrimSpace(d.Payee)
	i.Reference = strings.TrimSpace(d.Reference)
	i.DueDate = d.DueDate
	i.FaceAmount = d.FaceAmount.Amount()
	i.LateFee = d.LateFee.Amount()
	i.PaymentMethod = d.PaymentMethod
	i.AttachmentRef = d.AttachmentRef
	i.NegotiationNote = d.NegotiationNote
}

// UpdateDetails applies a direct edit. Posted invoices are frozen. An edit
// that brings the face amount down to the settled amount settles a pending
// invoice at the given time, and one that raises it above the settled amount
// reopens a settled invoice.
func (i *Invoice) UpdateDetails(d InvoiceDetails, at time.Time) error {
	if i.PostedToExpense() {
		return ErrInvoicePosted
	}
	if err := d.validate(); err != nil {
		return err
	}
	if d.FaceAmount.Amount().LessThan(i.SettledAmount) {
		return shared.NewDomainError(CodeInvalidAmount, "Face amount cannot be lower than the amount already settled")
	}

	i.applyDetails(d)
	switch {
	case i.Status == InvoiceStatusPending && i.SettledAmount.IsPositive() && i.IsFullySettled():
		i.settle(at)
	case i.Status.IsSettled() && !i.IsFullySettled():
		i.reopen()
	}
	i.Touch()
	i.IncrementVersion()
	return nil
}

// Suspend moves the invoice to the suspended administrative state
func (i *Invoice) Suspend() error {
	return i.setAdministrative(InvoiceStatusSuspended)
}

// Cancel moves the invoice to the cancelled administrative state
func (i *Invoice) Cancel() error {
	return i.setAdministrative(InvoiceStatusCancelled)
}

func (i *Invoice) setAdministrative(status InvoiceStatus) error {
	if i.PostedToExpense() {
		return ErrInvoicePosted
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot change status")
	}
	i.Status = status
	i.Touch()
	i.IncrementVersion()
	return nil
}

// RemainingAmount returns face - settled
func (i *Invoice) RemainingAmount() decimal.Decimal {
	return i.FaceAmount.Sub(i.SettledAmount)
}

// IsFullySettled returns true when the settled amount covers the face amount
func (i *Invoice) IsFullySettled() bool {
	return i.SettledAmount.GreaterThanOrEqual(i.FaceAmount)
}

// PostedToExpense returns true once the settlement expense is written
func (i *Invoice) PostedToExpense() bool {
	return i.PostingState == PostingStatePosted
}

// NeedsPosting returns true while the invoice waits in the settled-pending-post phase
func (i *Invoice) NeedsPosting() bool {
	return i.PostingState == PostingStatePendingPost
}

// ExpenseAmount is the amount posted on settlement: face amount plus late fee
func (i *Invoice) ExpenseAmount() decimal.Decimal {
	return i.FaceAmount.Add(i.LateFee)
}

// DaysLate returns the whole calendar days between due date and settlement date.
// Returns 0 if either date is missing or the invoice was settled on time.
func (i *Invoice) DaysLate(loc *time.Location) int {
	if i.DueDate == nil || i.SettlementDate == nil {
		return 0
	}
	days := shared.DaysBetween(*i.DueDate, *i.SettlementDate, loc)
	if days < 0 {
		return 0
	}
	return days
}

// LinkAt returns the link at the given list position
func (i *Invoice) LinkAt(index int) (InvoiceLink, error) {
	if index < 0 || index >= len(i.Links) {
		return InvoiceLink{}, ErrLinkNotFound
	}
	return i.Links[index], nil
}

// LinkedTotal sums the amounts of all links on the invoice
func (i *Invoice) LinkedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Links {
		total = total.Add(l.Amount)
	}
	return total
}

// addLink appends a link and settles the invoice when it becomes fully paid.
// Callers validate the amount; this only applies state.
func (i *Invoice) addLink(txn *StatementTransaction, amount decimal.Decimal, at time.Time) InvoiceLink {
	link := InvoiceLink{
		ID:              uuid.New(),
		InvoiceID:       i.ID,
		TransactionID:   txn.ID,
		TransactionCode: txn.ReferenceCode,
		Amount:          amount,
		LinkedAt:        at,
	}
	i.Links = append(i.Links, link)
	i.SettledAmount = i.SettledAmount.Add(amount)
	i.AddDomainEvent(NewInvoiceLinkedEvent(i, link))

	if i.IsFullySettled() {
		i.settle(at)
	}

	i.Touch()
	i.IncrementVersion()
	return link
}

// removeLink drops the link at index and reopens the invoice when it falls
// below full settlement.
func (i *Invoice) removeLink(index int) (InvoiceLink, error) {
	removed, err := i.LinkAt(index)
	if err != nil {
		return InvoiceLink{}, err
	}

	i.Links = append(i.Links[:index:index], i.Links[index+1:]...)
	i.SettledAmount = i.SettledAmount.Sub(removed.Amount)
	if i.SettledAmount.IsNegative() {
		i.SettledAmount = decimal.Zero
	}

	wasPostingRound := i.PostingState != PostingStateNone
	if !i.IsFullySettled() {
		i.reopen()
	}

	i.AddDomainEvent(NewInvoiceLinkReversedEvent(i, removed, wasPostingRound))
	i.Touch()
	i.IncrementVersion()
	return removed, nil
}

func (i *Invoice) settle(at time.Time) {
	settledAt := at
	i.Status = InvoiceStatusSettledToday
	i.SettlementDate = &settledAt
	i.PostingState = PostingStatePendingPost
	i.AddDomainEvent(NewInvoiceSettledEvent(i))
}

// reopen returns the invoice to pending. A posting round that had started is
// closed so the next settlement posts under a fresh round.
func (i *Invoice) reopen() {
	if i.Status.IsSettled() {
		i.Status = InvoiceStatusPending
	}
	i.SettlementDate = nil
	if i.PostingState != PostingStateNone {
		i.PostingRound++
	}
	i.PostingState = PostingStateNone
}

// MarkPosted completes the second posting phase
func (i *Invoice) MarkPosted(expenseID uuid.UUID) error {
	if i.PostedToExpense() {
		return ErrAlreadyPosted
	}
	if !i.IsFullySettled() {
		return ErrNotSettled
	}

	i.PostingState = PostingStatePosted
	i.AddDomainEvent(NewInvoicePostedEvent(i, expenseID))
	i.Touch()
	i.IncrementVersion()
	return nil
}

// RollOver moves a settled_today invoice to settled once its settlement
// day is in the past. Returns true if the status changed.
func (i *Invoice) RollOver(today time.Time, loc *time.Location) bool {
	if !i.DueForRollOver(today, loc) {
		return false
	}
	i.Status = InvoiceStatusSettled
	i.Touch()
	i.IncrementVersion()
	return true
}

// DueForRollOver reports whether a settled_today invoice was settled on an
// earlier day than today
func (i *Invoice) DueForRollOver(today time.Time, loc *time.Location) bool {
	if i.Status != InvoiceStatusSettledToday || i.SettlementDate == nil {
		return false
	}
	return shared.BeforeDay(*i.SettlementDate, today, loc)
}

// GetFaceAmountMoney returns the face amount as Money
func (i *Invoice) GetFaceAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.FaceAmount)
}

// GetSettledAmountMoney returns the settled amount as Money
func (i *Invoice) GetSettledAmountMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(i.SettledAmount)
}

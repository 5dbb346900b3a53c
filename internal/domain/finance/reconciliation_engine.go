package finance

import (
	"time"

	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LinkMode selects how the amount of a new link is resolved
type LinkMode string

const (
	// LinkModeFull links min(available, remaining)
	LinkModeFull LinkMode = "full"
	// LinkModePartial links the absolute value of a caller-supplied amount
	LinkModePartial LinkMode = "partial"
)

// IsValid checks if the mode is known
func (m LinkMode) IsValid() bool {
	return m == LinkModeFull || m == LinkModePartial
}

// LinkRequest describes a link the user wants to create
type LinkRequest struct {
	Mode          LinkMode
	PartialAmount decimal.Decimal // Only read in partial mode; sign is ignored
}

// LinkOutcome reports what a successful Link changed
type LinkOutcome struct {
	Link    InvoiceLink
	Amount  decimal.Decimal
	Settled bool // The invoice reached full settlement with this link
}

// UnlinkOutcome reports what a successful Unlink changed
type UnlinkOutcome struct {
	Removed  InvoiceLink
	Reopened bool // The invoice dropped below full settlement
}

// ReconciliationEngine is a domain service that links outflow statement
// transactions to payable invoices. It mutates the aggregates in memory only;
// the caller persists invoice and transaction together.
type ReconciliationEngine struct {
	clock    func() time.Time
	location *time.Location
}

// ReconciliationEngineOption is a functional option for configuring ReconciliationEngine
type ReconciliationEngineOption func(*ReconciliationEngine)

// WithClock overrides the time source used for link and settlement dates
func WithClock(clock func() time.Time) ReconciliationEngineOption {
	return func(e *ReconciliationEngine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLocation sets the business timezone
func WithLocation(loc *time.Location) ReconciliationEngineOption {
	return func(e *ReconciliationEngine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewReconciliationEngine creates a new engine with optional configuration
func NewReconciliationEngine(opts ...ReconciliationEngineOption) *ReconciliationEngine {
	e := &ReconciliationEngine{
		clock:    time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the business timezone
func (e *ReconciliationEngine) Location() *time.Location {
	return e.location
}

// Now returns the current time in the business timezone
func (e *ReconciliationEngine) Now() time.Time {
	return e.clock().In(e.location)
}

// Lookup returns the projection of a transaction the user may link.
// Inflow rows are rejected with ErrDirectionMismatch.
func (e *ReconciliationEngine) Lookup(txn *StatementTransaction) (*TransactionLookup, error) {
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if !txn.IsOutflow() {
		return nil, ErrDirectionMismatch
	}
	return txn.Project()
}

// AvailableAmount returns the part of the transaction not yet linked to any invoice
func (e *ReconciliationEngine) AvailableAmount(txn *StatementTransaction) (decimal.Decimal, error) {
	if txn == nil {
		return decimal.Zero, ErrTransactionNotFound
	}
	return txn.Available()
}

// Link resolves the amount for req, validates it against both balances and
// applies the link to invoice and transaction. Nothing is mutated on error.
func (e *ReconciliationEngine) Link(inv *Invoice, txn *StatementTransaction, req LinkRequest) (*LinkOutcome, error) {
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if !txn.IsOutflow() {
		return nil, ErrDirectionMismatch
	}
	if inv.Status.IsAdministrative() {
		return nil, shared.NewDomainError("INVALID_STATE", "Suspended or cancelled invoices cannot be linked")
	}

	available, err := e.AvailableAmount(txn)
	if err != nil {
		return nil, err
	}
	remaining := inv.RemainingAmount()
	if remaining.IsNegative() {
		return nil, shared.ErrDataIntegrity
	}

	var amount decimal.Decimal
	switch req.Mode {
	case LinkModeFull:
		amount = valueobject.MinDecimal(available, remaining)
	case LinkModePartial:
		amount = req.PartialAmount.Abs()
		if amount.GreaterThan(available) {
			return nil, ErrExceedsAvailable
		}
		if amount.GreaterThan(remaining) {
			return nil, ErrExceedsRemaining
		}
	default:
		return nil, shared.NewDomainError("INVALID_MODE", "Link mode must be full or partial")
	}

	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	wasSettled := inv.IsFullySettled()
	link := inv.addLink(txn, amount, e.Now())
	txn.reserve(amount)

	return &LinkOutcome{
		Link:    link,
		Amount:  amount,
		Settled: !wasSettled && inv.IsFullySettled(),
	}, nil
}

// Unlink removes the link at index and returns its amount to the
// transaction's available balance. txn must be the transaction the link
// references.
func (e *ReconciliationEngine) Unlink(inv *Invoice, txn *StatementTransaction, index int) (*UnlinkOutcome, error) {
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	link, err := inv.LinkAt(index)
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.ID != link.TransactionID {
		return nil, ErrTransactionNotFound
	}
	if txn.LinkedAmount.LessThan(link.Amount) {
		return nil, shared.ErrDataIntegrity
	}

	wasSettled := inv.IsFullySettled()
	removed, err := inv.removeLink(index)
	if err != nil {
		return nil, err
	}
	txn.release(removed.Amount)

	return &UnlinkOutcome{
		Removed:  removed,
		Reopened: wasSettled && !inv.IsFullySettled(),
	}, nil
}

package finance

import (
	"strings"
	"time"

	"github.com/pethotel/backend/internal/domain/shared"
)

// SettlementPoster turns a fully settled invoice into its expense record.
// It only builds the record; writing it and marking the invoice posted are
// separate steps so a crash between them can be repaired by a rerun.
type SettlementPoster struct {
	clock    func() time.Time
	location *time.Location
}

// NewSettlementPoster creates a poster using the given clock and timezone.
// A nil clock means time.Now and a nil loc means UTC.
func NewSettlementPoster(clock func() time.Time, loc *time.Location) *SettlementPoster {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SettlementPoster{clock: clock, location: loc}
}

// CheckPostable returns nil when the invoice may be posted
func (p *SettlementPoster) CheckPostable(inv *Invoice) error {
	if inv == nil {
		return ErrInvoiceNotFound
	}
	if inv.PostedToExpense() {
		return ErrAlreadyPosted
	}
	if !inv.IsFullySettled() {
		return ErrNotSettled
	}
	return nil
}

// BuildExpense creates the expense for the invoice's current posting round
func (p *SettlementPoster) BuildExpense(inv *Invoice) (*Expense, error) {
	if err := p.CheckPostable(inv); err != nil {
		return nil, err
	}

	postingDate := p.clock().In(p.location)
	if inv.SettlementDate != nil {
		postingDate = *inv.SettlementDate
	}

	links := make([]LinkSnapshot, 0, len(inv.Links))
	for _, l := range inv.Links {
		links = append(links, LinkSnapshot{
			TransactionID:   l.TransactionID,
			TransactionCode: l.TransactionCode,
			Amount:          l.Amount,
			LinkedAt:        l.LinkedAt,
		})
	}

	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(inv.TenantID),
		PostingDate:         postingDate,
		Category:            inv.Category,
		Subcategory:         inv.Reference,
		Description:         expenseDescription(inv),
		Amount:              inv.ExpenseAmount(),
		PaymentMethod:       inv.PaymentMethod,
		Payee:               inv.Payee,
		SourceInvoiceID:     inv.ID,
		PostingRound:        inv.PostingRound,
		AuditNote: ExpenseAuditNote{
			OriginalDueDate: inv.DueDate,
			DaysLate:        inv.DaysLate(p.location),
			LateFee:         inv.LateFee,
			Links:           links,
		},
	}, nil
}

// Complete marks the invoice posted against an expense already written
func (p *SettlementPoster) Complete(inv *Invoice, expense *Expense) error {
	if err := p.CheckPostable(inv); err != nil {
		return err
	}
	if expense == nil || expense.SourceInvoiceID != inv.ID || expense.PostingRound != inv.PostingRound {
		return shared.NewDomainError("INVALID_STATE", "Expense does not belong to the invoice's current posting round")
	}
	return inv.MarkPosted(expense.ID)
}

func expenseDescription(inv *Invoice) string {
	if inv.Reference == "" {
		return inv.Payee
	}
	return strings.Join([]string{inv.Payee, inv.Reference}, " - ")
}

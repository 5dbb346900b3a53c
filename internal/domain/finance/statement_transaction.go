package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TransactionDirection is the polarity of a bank-statement row
type TransactionDirection string

const (
	TransactionDirectionInflow  TransactionDirection = "inflow"
	TransactionDirectionOutflow TransactionDirection = "outflow"
)

// IsValid checks if the direction is known
func (d TransactionDirection) IsValid() bool {
	return d == TransactionDirectionInflow || d == TransactionDirectionOutflow
}

// String returns the string representation of TransactionDirection
func (d TransactionDirection) String() string {
	return string(d)
}

// StatementTransaction is an imported bank-ledger row (aggregate root).
// Amount is always stored as an absolute value; LinkedAmount is the running
// total of every invoice link that references this row.
type StatementTransaction struct {
	shared.TenantAggregateRoot
	ReferenceCode string               `json:"reference_code"`
	Direction     TransactionDirection `json:"direction"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          time.Time            `json:"date"`
	Description   string               `json:"description"`
	PaymentMethod string               `json:"payment_method"`
	LinkedAmount  decimal.Decimal      `json:"linked_amount"`
}

// NewStatementTransaction creates a statement row from a source amount that
// may be signed. An empty direction is inferred from the sign: negative
// amounts leave the account.
func NewStatementTransaction(
	tenantID uuid.UUID,
	referenceCode string,
	direction TransactionDirection,
	amount valueobject.Money,
	date time.Time,
	description string,
	paymentMethod string,
) (*StatementTransaction, error) {
	code := strings.TrimSpace(referenceCode)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference code cannot be empty")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError(CodeInvalidAmount, "Transaction amount cannot be zero")
	}
	if direction == "" {
		direction = TransactionDirectionInflow
		if amount.IsNegative() {
			direction = TransactionDirectionOutflow
		}
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be inflow or outflow")
	}

	txn := &StatementTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReferenceCode:       code,
		Direction:           direction,
		Amount:              amount.Abs().Amount(),
		Date:                date,
		Description:         strings.TrimSpace(description),
		PaymentMethod:       paymentMethod,
		LinkedAmount:        decimal.Zero,
	}
	txn.AddDomainEvent(NewStatementTransactionImportedEvent(txn))
	return txn, nil
}

// IsOutflow returns true when the row can settle payables
func (t *StatementTransaction) IsOutflow() bool {
	return t.Direction == TransactionDirectionOutflow
}

// Available returns abs(amount) - linked. A negative balance means an earlier
// write broke the ledger and is returned as ErrDataIntegrity.
func (t *StatementTransaction) Available() (decimal.Decimal, error) {
	available := t.Amount.Abs().Sub(t.LinkedAmount)
	if available.IsNegative() {
		return decimal.Zero, shared.ErrDataIntegrity
	}
	return available, nil
}

func (t *StatementTransaction) reserve(amount decimal.Decimal) {
	t.LinkedAmount = t.LinkedAmount.Add(amount)
	t.Touch()
	t.IncrementVersion()
}

func (t *StatementTransaction) release(amount decimal.Decimal) {
	t.LinkedAmount = t.LinkedAmount.Sub(amount)
	t.Touch()
	t.IncrementVersion()
}

// TransactionLookup is the read projection returned when a user enters a
// reference code on an invoice.
type TransactionLookup struct {
	TransactionID uuid.UUID            `json:"transaction_id"`
	ReferenceCode string               `json:"reference_code"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          time.Time            `json:"date"`
	PaymentMethod string               `json:"payment_method"`
	Description   string               `json:"description"`
	Direction     TransactionDirection `json:"direction"`
	Available     decimal.Decimal      `json:"available"`
}

// Project builds the lookup projection, including the available balance
func (t *StatementTransaction) Project() (*TransactionLookup, error) {
	available, err := t.Available()
	if err != nil {
		return nil, err
	}
	return &TransactionLookup{
		TransactionID: t.ID,
		ReferenceCode: t.ReferenceCode,
		Amount:        t.Amount.Abs(),
		Date:          t.Date,
		PaymentMethod: t.PaymentMethod,
		Description:   t.Description,
		Direction:     t.Direction,
		Available:     available,
	}, nil
}

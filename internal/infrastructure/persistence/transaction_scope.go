package persistence

import (
	"context"

	appfinance "github.com/pethotel/backend/internal/application/finance"
	appscheduling "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"gorm.io/gorm"
)

// GormLedgerScope implements finance.TransactionScope using GORM transactions.
// Rows read through the scoped repositories are locked until commit.
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs fn within a database transaction. An error from fn rolls it back.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepositories{tx: tx})
	})
}

type ledgerRepositories struct {
	tx *gorm.DB
}

func (r *ledgerRepositories) InvoiceRepo() finance.InvoiceRepository {
	return &GormInvoiceRepository{db: r.tx, lockRows: true}
}

func (r *ledgerRepositories) StatementTransactionRepo() finance.StatementTransactionRepository {
	return &GormStatementTransactionRepository{db: r.tx, lockRows: true}
}

func (r *ledgerRepositories) ExpenseRepo() finance.ExpenseRepository {
	return NewGormExpenseRepository(r.tx)
}

// GormSchedulingScope implements scheduling.TransactionScope using GORM transactions
type GormSchedulingScope struct {
	db *gorm.DB
}

// NewGormSchedulingScope creates a new GormSchedulingScope
func NewGormSchedulingScope(db *gorm.DB) *GormSchedulingScope {
	return &GormSchedulingScope{db: db}
}

// Execute runs fn within a database transaction. An error from fn rolls it back.
func (s *GormSchedulingScope) Execute(ctx context.Context, fn func(repos appscheduling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&schedulingRepositories{tx: tx})
	})
}

type schedulingRepositories struct {
	tx *gorm.DB
}

func (r *schedulingRepositories) AppointmentRepo() scheduling.AppointmentRepository {
	return &GormAppointmentRepository{db: r.tx, lockRows: true}
}

func (r *schedulingRepositories) CreditRepo() scheduling.ReplacementCreditRepository {
	return &GormReplacementCreditRepository{db: r.tx, lockRows: true}
}

var (
	_ appfinance.TransactionScope    = (*GormLedgerScope)(nil)
	_ appscheduling.TransactionScope = (*GormSchedulingScope)(nil)
)

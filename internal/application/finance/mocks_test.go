package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Repository mocks
// =============================================================================

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindPendingPosting(ctx context.Context, limit int) ([]finance.Invoice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindSettledToday(ctx context.Context, settledBefore time.Time) ([]finance.Invoice, error) {
	args := m.Called(ctx, settledBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

type MockStatementTransactionRepository struct {
	mock.Mock
}

func (m *MockStatementTransactionRepository) FindByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (*finance.StatementTransaction, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.StatementTransaction), args.Error(1)
}

func (m *MockStatementTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.StatementTransaction, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.StatementTransaction), args.Error(1)
}

func (m *MockStatementTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.StatementTransactionFilter) ([]finance.StatementTransaction, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.StatementTransaction), args.Error(1)
}

func (m *MockStatementTransactionRepository) ExistsByReferenceCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockStatementTransactionRepository) LinkTotals(ctx context.Context) ([]finance.TransactionLinkTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.TransactionLinkTotal), args.Error(1)
}

func (m *MockStatementTransactionRepository) Save(ctx context.Context, txn *finance.StatementTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindBySource(ctx context.Context, tenantID, invoiceID uuid.UUID, round int) (*finance.Expense, error) {
	args := m.Called(ctx, tenantID, invoiceID, round)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// =============================================================================
// Transaction scope fake
// =============================================================================

// fakeScope runs fn directly against the mocks. rolledBack counts the
// executions that returned an error.
type fakeScope struct {
	invoices     *MockInvoiceRepository
	transactions *MockStatementTransactionRepository
	expenses     *MockExpenseRepository
	executions   int
	rolledBack   int
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executions++
	if err := fn(s); err != nil {
		s.rolledBack++
		return err
	}
	return nil
}

func (s *fakeScope) InvoiceRepo() finance.InvoiceRepository { return s.invoices }
func (s *fakeScope) StatementTransactionRepo() finance.StatementTransactionRepository {
	return s.transactions
}
func (s *fakeScope) ExpenseRepo() finance.ExpenseRepository { return s.expenses }

type testDeps struct {
	invoices     *MockInvoiceRepository
	transactions *MockStatementTransactionRepository
	expenses     *MockExpenseRepository
	publisher    *MockEventPublisher
	scope        *fakeScope
}

func newTestDeps() *testDeps {
	d := &testDeps{
		invoices:     new(MockInvoiceRepository),
		transactions: new(MockStatementTransactionRepository),
		expenses:     new(MockExpenseRepository),
		publisher:    new(MockEventPublisher),
	}
	d.scope = &fakeScope{invoices: d.invoices, transactions: d.transactions, expenses: d.expenses}
	d.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return d
}

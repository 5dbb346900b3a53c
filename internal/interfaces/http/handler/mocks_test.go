package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	attendanceapp "github.com/pethotel/backend/internal/application/attendance"
	financeapp "github.com/pethotel/backend/internal/application/finance"
	schedulingapp "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/pethotel/backend/internal/domain/finance"
	"github.com/stretchr/testify/mock"
)

type MockInvoiceUseCases struct {
	mock.Mock
}

func (m *MockInvoiceUseCases) CreateInvoice(ctx context.Context, tenantID uuid.UUID, req financeapp.InvoiceRequest) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceUseCases) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceUseCases) ListInvoices(ctx context.Context, tenantID uuid.UUID, f financeapp.InvoiceListFilter) ([]financeapp.InvoiceResponse, int64, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.InvoiceResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceUseCases) UpdateInvoice(ctx context.Context, tenantID, id uuid.UUID, req financeapp.InvoiceRequest) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceUseCases) SuspendInvoice(ctx context.Context, tenantID, id uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceUseCases) CancelInvoice(ctx context.Context, tenantID, id uuid.UUID) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *MockInvoiceUseCases) ListExpenses(ctx context.Context, tenantID uuid.UUID, f financeapp.ExpenseListFilter) ([]financeapp.ExpenseResponse, int64, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]financeapp.ExpenseResponse), args.Get(1).(int64), args.Error(2)
}

type MockReconciliationUseCases struct {
	mock.Mock
}

func (m *MockReconciliationUseCases) LookupTransaction(ctx context.Context, tenantID uuid.UUID, code string) (*finance.TransactionLookup, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.TransactionLookup), args.Error(1)
}

func (m *MockReconciliationUseCases) Link(ctx context.Context, tenantID, invoiceID uuid.UUID, req financeapp.LinkTransactionRequest) (*financeapp.LinkResult, error) {
	args := m.Called(ctx, tenantID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.LinkResult), args.Error(1)
}

func (m *MockReconciliationUseCases) Unlink(ctx context.Context, tenantID, invoiceID uuid.UUID, index int) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, tenantID, invoiceID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

type MockPostingUseCases struct {
	mock.Mock
}

func (m *MockPostingUseCases) PostIfSettled(ctx context.Context, tenantID, invoiceID uuid.UUID) (*financeapp.PostResult, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PostResult), args.Error(1)
}

type MockSweepRunner struct {
	mock.Mock
}

func (m *MockSweepRunner) Sweep(ctx context.Context, today time.Time) (*financeapp.SweepResult, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.SweepResult), args.Error(1)
}

type MockTransactionUseCases struct {
	mock.Mock
}

func (m *MockTransactionUseCases) ImportTransaction(ctx context.Context, tenantID uuid.UUID, req financeapp.ImportTransactionRequest) (*financeapp.TransactionResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.TransactionResponse), args.Error(1)
}

func (m *MockTransactionUseCases) GetTransaction(ctx context.Context, tenantID uuid.UUID, code string) (*financeapp.TransactionResponse, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.TransactionResponse), args.Error(1)
}

type MockCreditUseCases struct {
	mock.Mock
}

func (m *MockCreditUseCases) Today() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *MockCreditUseCases) Scan(ctx context.Context, tenantID uuid.UUID, today time.Time) (*schedulingapp.ScanResult, error) {
	args := m.Called(ctx, tenantID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedulingapp.ScanResult), args.Error(1)
}

func (m *MockCreditUseCases) ConsumeCredit(ctx context.Context, tenantID, creditID, appointmentID uuid.UUID) (*schedulingapp.CreditResponse, error) {
	args := m.Called(ctx, tenantID, creditID, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedulingapp.CreditResponse), args.Error(1)
}

func (m *MockCreditUseCases) ListCredits(ctx context.Context, tenantID uuid.UUID, f schedulingapp.CreditListFilter) ([]schedulingapp.CreditResponse, int64, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]schedulingapp.CreditResponse), args.Get(1).(int64), args.Error(2)
}

type MockAttendanceUseCases struct {
	mock.Mock
}

func (m *MockAttendanceUseCases) GetGaps(ctx context.Context, tenantID, dogID uuid.UUID, today time.Time) (*attendanceapp.GapsResponse, error) {
	args := m.Called(ctx, tenantID, dogID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.GapsResponse), args.Error(1)
}

func (m *MockAttendanceUseCases) RecordCheckin(ctx context.Context, tenantID uuid.UUID, req attendanceapp.RecordCheckinRequest) (*attendanceapp.CheckinResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attendanceapp.CheckinResponse), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

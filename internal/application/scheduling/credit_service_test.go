package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	brt      = time.FixedZone("BRT", -3*3600)
	today    = time.Date(2024, 6, 14, 9, 0, 0, 0, brt)
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter scheduling.AppointmentFilter) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindCreditCandidates(ctx context.Context, tenantID uuid.UUID, before time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, tenantID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) TenantsWithCreditCandidates(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*scheduling.ReplacementCredit, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.ReplacementCredit), args.Error(1)
}

func (m *MockCreditRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter scheduling.CreditFilter) ([]scheduling.ReplacementCredit, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.ReplacementCredit), args.Error(1)
}

func (m *MockCreditRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter scheduling.CreditFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCreditRepository) Create(ctx context.Context, credit *scheduling.ReplacementCredit) error {
	return m.Called(ctx, credit).Error(0)
}

func (m *MockCreditRepository) Save(ctx context.Context, credit *scheduling.ReplacementCredit) error {
	return m.Called(ctx, credit).Error(0)
}

type fakeScope struct {
	appointments *MockAppointmentRepository
	credits      *MockCreditRepository
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *fakeScope) AppointmentRepo() scheduling.AppointmentRepository { return s.appointments }
func (s *fakeScope) CreditRepo() scheduling.ReplacementCreditRepository { return s.credits }

type countingMetrics struct {
	generated int
}

func (m *countingMetrics) RecordCreditsGenerated(_ context.Context, _ uuid.UUID, n int) {
	m.generated += n
}

func newTestService(metrics CreditMetrics) (*CreditService, *MockAppointmentRepository, *MockCreditRepository) {
	appts := new(MockAppointmentRepository)
	credits := new(MockCreditRepository)
	svc := NewCreditService(CreditServiceConfig{
		Scope:           &fakeScope{appointments: appts, credits: credits},
		AppointmentRepo: appts,
		CreditRepo:      credits,
		Location:        brt,
		Clock:           func() time.Time { return today },
		Metrics:         metrics,
	})
	return svc, appts, credits
}

func paidAppointment(t *testing.T, dogID uuid.UUID, st scheduling.ServiceType, at time.Time) scheduling.Appointment {
	t.Helper()
	a, err := scheduling.NewAppointment(tenantID, dogID, "Ana", st, at, valueobject.NewMoneyBRL(decimal.NewFromInt(90)))
	require.NoError(t, err)
	a.MarkPaid()
	return *a
}

func TestCreditService_Scan(t *testing.T) {
	ctx := context.Background()
	dogID := uuid.New()
	midnight := shared.DateOf(today, brt)

	t.Run("converts candidates and a rerun converts none", func(t *testing.T) {
		metrics := &countingMetrics{}
		svc, appts, credits := newTestService(metrics)

		candidate := paidAppointment(t, dogID, scheduling.ServiceTypeBanho, today.AddDate(0, 0, -2))
		appts.On("FindCreditCandidates", ctx, tenantID, midnight).Return([]scheduling.Appointment{candidate}, nil).Once()
		credits.On("Create", ctx, mock.MatchedBy(func(c *scheduling.ReplacementCredit) bool {
			return c.SourceAppointmentID == candidate.ID && c.Status == scheduling.CreditStatusAvailable
		})).Return(nil).Once()
		appts.On("Save", ctx, mock.MatchedBy(func(a *scheduling.Appointment) bool { return a.Replaced })).Return(nil).Once()

		result, err := svc.Scan(ctx, tenantID, today)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Generated)
		require.Len(t, result.Credits, 1)
		assert.Equal(t, "banho", result.Credits[0].ServiceType)
		assert.True(t, result.Credits[0].Value.Equal(decimal.NewFromInt(90)))
		assert.Equal(t, 1, metrics.generated)

		// The repository no longer returns the replaced appointment.
		appts.On("FindCreditCandidates", ctx, tenantID, midnight).Return([]scheduling.Appointment{}, nil).Once()
		result, err = svc.Scan(ctx, tenantID, today)
		require.NoError(t, err)
		assert.Zero(t, result.Generated)
		credits.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("already converted by a concurrent run is skipped", func(t *testing.T) {
		svc, appts, credits := newTestService(nil)
		candidate := paidAppointment(t, dogID, scheduling.ServiceTypeTosa, today.AddDate(0, 0, -1))
		appts.On("FindCreditCandidates", ctx, tenantID, midnight).Return([]scheduling.Appointment{candidate}, nil)
		credits.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		result, err := svc.Scan(ctx, tenantID, today)
		require.NoError(t, err)
		assert.Zero(t, result.Generated)
		assert.Equal(t, 1, result.Skipped)
		appts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("same-day appointments are not converted", func(t *testing.T) {
		svc, appts, credits := newTestService(nil)
		candidate := paidAppointment(t, dogID, scheduling.ServiceTypeTosa, today.Add(-time.Hour))
		appts.On("FindCreditCandidates", ctx, tenantID, midnight).Return([]scheduling.Appointment{candidate}, nil)

		result, err := svc.Scan(ctx, tenantID, today)
		require.NoError(t, err)
		assert.Zero(t, result.Generated)
		credits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("storage failure aborts", func(t *testing.T) {
		svc, appts, credits := newTestService(nil)
		candidate := paidAppointment(t, dogID, scheduling.ServiceTypeTosa, today.AddDate(0, 0, -3))
		appts.On("FindCreditCandidates", ctx, tenantID, midnight).Return([]scheduling.Appointment{candidate}, nil)
		credits.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.Scan(ctx, tenantID, today)
		assert.Error(t, err)
	})
}

func TestCreditService_ScanAllTenants(t *testing.T) {
	ctx := context.Background()
	svc, appts, credits := newTestService(nil)
	other := uuid.New()
	midnight := shared.DateOf(today, brt)

	appts.On("TenantsWithCreditCandidates", ctx, midnight).Return([]uuid.UUID{tenantID, other}, nil)
	appts.On("FindCreditCandidates", ctx, tenantID, midnight).Return(nil, errors.New("timeout"))
	appts.On("FindCreditCandidates", ctx, other, midnight).Return([]scheduling.Appointment{}, nil)

	results, err := svc.ScanAllTenants(ctx, today)
	assert.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, other, results[0].TenantID)
	credits.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreditService_ConsumeCredit(t *testing.T) {
	ctx := context.Background()
	dogID := uuid.New()

	newCredit := func(t *testing.T) *scheduling.ReplacementCredit {
		source := paidAppointment(t, dogID, scheduling.ServiceTypeDayCare, today.AddDate(0, 0, -5))
		conv, err := scheduling.NewCreditGenerator(brt).Convert(&source, today)
		require.NoError(t, err)
		return conv.Credit
	}

	t.Run("spends credit and marks the target paid", func(t *testing.T) {
		svc, appts, credits := newTestService(nil)
		credit := newCredit(t)
		target, err := scheduling.NewAppointment(tenantID, dogID, "Ana", scheduling.ServiceTypeDayCare, today.AddDate(0, 0, 2), valueobject.ZeroBRL())
		require.NoError(t, err)

		credits.On("FindByIDForTenant", ctx, tenantID, credit.ID).Return(credit, nil)
		appts.On("FindByIDForTenant", ctx, tenantID, target.ID).Return(target, nil)
		credits.On("Save", ctx, credit).Return(nil)
		appts.On("Save", ctx, target).Return(nil)

		resp, err := svc.ConsumeCredit(ctx, tenantID, credit.ID, target.ID)
		require.NoError(t, err)
		assert.Equal(t, "consumed", resp.Status)
		require.NotNil(t, resp.ConsumedBy)
		assert.Equal(t, target.ID, *resp.ConsumedBy)
		assert.True(t, target.IsPaid())

		_, err = svc.ConsumeCredit(ctx, tenantID, credit.ID, target.ID)
		assert.ErrorIs(t, err, scheduling.ErrCreditNotAvailable)
	})

	t.Run("another dog's appointment is rejected", func(t *testing.T) {
		svc, appts, credits := newTestService(nil)
		credit := newCredit(t)
		target, err := scheduling.NewAppointment(tenantID, uuid.New(), "Bia", scheduling.ServiceTypeDayCare, today, valueobject.ZeroBRL())
		require.NoError(t, err)

		credits.On("FindByIDForTenant", ctx, tenantID, credit.ID).Return(credit, nil)
		appts.On("FindByIDForTenant", ctx, tenantID, target.ID).Return(target, nil)

		_, err = svc.ConsumeCredit(ctx, tenantID, credit.ID, target.ID)
		assert.True(t, shared.HasCode(err, "INVALID_INPUT"))
		assert.True(t, credit.IsAvailable())
		credits.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCreditService_ListCredits(t *testing.T) {
	ctx := context.Background()
	svc, _, credits := newTestService(nil)
	dogID := uuid.New()

	match := mock.MatchedBy(func(f scheduling.CreditFilter) bool {
		return f.DogID != nil && *f.DogID == dogID && f.Status != nil && *f.Status == scheduling.CreditStatusAvailable
	})
	credits.On("FindAllForTenant", ctx, tenantID, match).Return([]scheduling.ReplacementCredit{{DogID: dogID}}, nil)
	credits.On("CountForTenant", ctx, tenantID, match).Return(int64(1), nil)

	out, total, err := svc.ListCredits(ctx, tenantID, CreditListFilter{DogID: dogID.String(), Status: "available"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), total)

	_, _, err = svc.ListCredits(ctx, tenantID, CreditListFilter{Status: "expired"})
	assert.True(t, shared.HasCode(err, "INVALID_STATUS"))
}

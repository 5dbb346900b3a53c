package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appscheduling "github.com/pethotel/backend/internal/application/scheduling"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppointment(t *testing.T, tenantID, dogID uuid.UUID, at time.Time, paid bool) *scheduling.Appointment {
	t.Helper()
	appt, err := scheduling.NewAppointment(tenantID, dogID, "Ana", scheduling.ServiceTypeBanho, at,
		valueobject.NewMoneyBRL(decimal.RequireFromString("80.00")))
	require.NoError(t, err)
	if paid {
		appt.MarkPaid()
	}
	return appt
}

func TestGormAppointmentRepository_CreditCandidates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAppointmentRepository(db)
	ctx := context.Background()

	dog := uuid.New()
	otherTenant := uuid.New()
	yesterday := testNow.AddDate(0, 0, -1)
	startOfToday := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

	candidate := newTestAppointment(t, testTenant, dog, yesterday, true)
	unpaid := newTestAppointment(t, testTenant, dog, yesterday, false)
	attended := newTestAppointment(t, testTenant, dog, yesterday, true)
	require.NoError(t, attended.MarkUsed())
	today := newTestAppointment(t, testTenant, dog, testNow, true)
	foreign := newTestAppointment(t, otherTenant, dog, yesterday, true)
	for _, a := range []*scheduling.Appointment{candidate, unpaid, attended, today, foreign} {
		require.NoError(t, repo.Save(ctx, a))
	}

	rows, err := repo.FindCreditCandidates(ctx, testTenant, startOfToday)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, candidate.ID, rows[0].ID)

	tenants, err := repo.TenantsWithCreditCandidates(ctx, startOfToday)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{testTenant, otherTenant}, tenants)

	t.Run("dog history before a cutoff", func(t *testing.T) {
		f := shared.Filter{OrderBy: "scheduled_at", OrderDir: "asc"}
		rows, err := repo.FindAllForTenant(ctx, testTenant, scheduling.AppointmentFilter{Filter: f, DogID: &dog, Before: &startOfToday})
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}

func TestGormReplacementCreditRepository(t *testing.T) {
	db := setupTestDB(t)
	appts := NewGormAppointmentRepository(db)
	credits := NewGormReplacementCreditRepository(db)
	ctx := context.Background()

	appt := newTestAppointment(t, testTenant, uuid.New(), testNow.AddDate(0, 0, -2), true)
	require.NoError(t, appts.Save(ctx, appt))

	conv, err := scheduling.NewCreditGenerator(time.UTC).Convert(appt, testNow)
	require.NoError(t, err)
	require.NoError(t, credits.Create(ctx, conv.Credit))
	require.NoError(t, appts.Save(ctx, conv.Appointment))

	t.Run("one credit per source appointment", func(t *testing.T) {
		reloaded, err := appts.FindByIDForTenant(ctx, testTenant, appt.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Replaced)

		again := *conv.Credit
		again.ID = uuid.New()
		assert.ErrorIs(t, credits.Create(ctx, &again), shared.ErrAlreadyExists)
	})

	t.Run("consume and filter by status", func(t *testing.T) {
		credit, err := credits.FindByIDForTenant(ctx, testTenant, conv.Credit.ID)
		require.NoError(t, err)
		target := uuid.New()
		require.NoError(t, credit.Consume(target, testNow))
		require.NoError(t, credits.Save(ctx, credit))

		status := scheduling.CreditStatusConsumed
		filter := scheduling.CreditFilter{Filter: shared.DefaultFilter(), Status: &status}
		rows, err := credits.FindAllForTenant(ctx, testTenant, filter)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].ConsumedBy)
		assert.Equal(t, target, *rows[0].ConsumedBy)

		count, err := credits.CountForTenant(ctx, testTenant, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormSchedulingScope_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	scope := NewGormSchedulingScope(db)
	ctx := context.Background()
	appt := newTestAppointment(t, testTenant, uuid.New(), testNow, true)

	err := scope.Execute(ctx, func(repos appscheduling.TransactionalRepositories) error {
		require.NoError(t, repos.AppointmentRepo().Save(ctx, appt))
		return shared.ErrConcurrencyConflict
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	_, err = NewGormAppointmentRepository(db).FindByIDForTenant(ctx, testTenant, appt.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

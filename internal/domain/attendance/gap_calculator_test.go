package attendance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/domain/shared"
	"github.com/pethotel/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testLoc    = time.FixedZone("BRT", -3*3600)
	today      = time.Date(2024, 6, 14, 9, 0, 0, 0, testLoc)
)

func appt(t *testing.T, dog uuid.UUID, st scheduling.ServiceType, at time.Time) scheduling.Appointment {
	t.Helper()
	a, err := scheduling.NewAppointment(testTenant, dog, "Ana", st, at, valueobject.ZeroBRL())
	require.NoError(t, err)
	return *a
}

func checkin(t *testing.T, dog uuid.UUID, at time.Time, label string) Checkin {
	t.Helper()
	c, err := NewCheckin(testTenant, dog, at, label)
	require.NoError(t, err)
	return *c
}

func TestComputeGaps_ScenarioE(t *testing.T) {
	dog := uuid.New()
	calc := NewGapCalculator(testLoc)

	gaps := calc.ComputeGaps(dog,
		[]scheduling.Appointment{appt(t, dog, scheduling.ServiceTypeBanhoTosa, today.AddDate(0, 0, -2))},
		nil, today)

	assert.Equal(t, Gaps{Banho: 1, Tosa: 1}, gaps)
}

func TestComputeGaps_LabelMatching(t *testing.T) {
	dog := uuid.New()
	day := time.Date(2024, 6, 10, 10, 0, 0, 0, testLoc)

	tests := []struct {
		name    string
		service scheduling.ServiceType
		labels  []string
		want    Gaps
	}{
		{"day care matched", scheduling.ServiceTypeDayCare, []string{"Day Care"}, Gaps{}},
		{"day care unmatched", scheduling.ServiceTypeDayCare, []string{"Banho"}, Gaps{DayCare: 1}},
		{"banho matched", scheduling.ServiceTypeBanho, []string{"Banho"}, Gaps{}},
		{"tosa matched", scheduling.ServiceTypeTosa, []string{"Tosa"}, Gaps{}},
		{"hospedagem unmatched", scheduling.ServiceTypeHospedagem, nil, Gaps{Hospedagem: 1}},
		{"banho_tosa combined label", scheduling.ServiceTypeBanhoTosa, []string{"Banho e Tosa"}, Gaps{}},
		{"banho_tosa only banho", scheduling.ServiceTypeBanhoTosa, []string{"Banho"}, Gaps{Tosa: 1}},
		{"banho_tosa only tosa", scheduling.ServiceTypeBanhoTosa, []string{"Tosa"}, Gaps{Banho: 1}},
		{"banho_tosa both separately", scheduling.ServiceTypeBanhoTosa, []string{"Banho", "Tosa"}, Gaps{}},
		{"transporte always a gap", scheduling.ServiceTypeTransporte, []string{"Transporte"}, Gaps{Transporte: 1}},
		{"case and spacing are folded", scheduling.ServiceTypeBanhoTosa, []string{"  BANHO   e tosa "}, Gaps{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var checkins []Checkin
			for _, l := range tc.labels {
				checkins = append(checkins, checkin(t, dog, day.Add(2*time.Hour), l))
			}
			got := NewGapCalculator(testLoc).ComputeGaps(dog,
				[]scheduling.Appointment{appt(t, dog, tc.service, day)}, checkins, today)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestComputeGaps_Filters(t *testing.T) {
	dog := uuid.New()
	other := uuid.New()
	calc := NewGapCalculator(testLoc)
	past := today.AddDate(0, 0, -1)

	cancelled := appt(t, dog, scheduling.ServiceTypeBanho, past)
	cancelled.Cancel()

	appointments := []scheduling.Appointment{
		cancelled,
		appt(t, other, scheduling.ServiceTypeBanho, past),
		appt(t, dog, scheduling.ServiceTypeBanho, today.Add(-2*time.Hour)),
		appt(t, dog, scheduling.ServiceTypeBanho, today.AddDate(0, 0, 3)),
	}

	assert.Equal(t, Gaps{}, calc.ComputeGaps(dog, appointments, nil, today))
}

func TestComputeGaps_CheckinMustBeSameDayAndDog(t *testing.T) {
	dog := uuid.New()
	calc := NewGapCalculator(testLoc)
	apptDay := time.Date(2024, 6, 10, 8, 0, 0, 0, testLoc)

	checkins := []Checkin{
		checkin(t, dog, apptDay.AddDate(0, 0, 1), "Banho"),
		checkin(t, uuid.New(), apptDay, "Banho"),
	}
	got := calc.ComputeGaps(dog,
		[]scheduling.Appointment{appt(t, dog, scheduling.ServiceTypeBanho, apptDay)}, checkins, today)
	assert.Equal(t, 1, got.Banho)

	// 23:30 BRT is the next day in UTC; the business zone decides the day.
	late := time.Date(2024, 6, 10, 23, 30, 0, 0, testLoc)
	got = calc.ComputeGaps(dog,
		[]scheduling.Appointment{appt(t, dog, scheduling.ServiceTypeBanho, apptDay)},
		[]Checkin{checkin(t, dog, late.UTC(), "Banho")}, today)
	assert.Equal(t, 0, got.Total())
}

func TestComputeGaps_CountsAccumulate(t *testing.T) {
	dog := uuid.New()
	calc := NewGapCalculator(testLoc)
	var appointments []scheduling.Appointment
	for i := 1; i <= 3; i++ {
		appointments = append(appointments, appt(t, dog, scheduling.ServiceTypeDayCare, today.AddDate(0, 0, -i)))
	}
	appointments = append(appointments, appt(t, dog, scheduling.ServiceTypeTransporte, today.AddDate(0, 0, -1)))

	checkins := []Checkin{checkin(t, dog, today.AddDate(0, 0, -2), "day care")}
	got := calc.ComputeGaps(dog, appointments, checkins, today)

	assert.Equal(t, Gaps{DayCare: 2, Transporte: 1}, got)
	assert.Equal(t, 3, got.Total())
}

func TestNewCheckin(t *testing.T) {
	_, err := NewCheckin(testTenant, uuid.Nil, today, "Banho")
	assert.True(t, shared.HasCode(err, "INVALID_DOG"))

	_, err = NewCheckin(testTenant, uuid.New(), today, "   ")
	assert.True(t, shared.HasCode(err, "INVALID_LABEL"))
}

package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pethotel/backend/internal/domain/scheduling"
	"github.com/pethotel/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

// Bucket is one missed-session counter
type Bucket string

const (
	BucketDayCare    Bucket = "day_care"
	BucketBanho      Bucket = "banho"
	BucketTosa       Bucket = "tosa"
	BucketHospedagem Bucket = "hospedagem"
	BucketTransporte Bucket = "transporte"
)

// Gaps counts missed sessions per bucket. It is derived and never stored.
type Gaps struct {
	DayCare    int `json:"day_care"`
	Banho      int `json:"banho"`
	Tosa       int `json:"tosa"`
	Hospedagem int `json:"hospedagem"`
	Transporte int `json:"transporte"`
}

func (g *Gaps) add(b Bucket) {
	switch b {
	case BucketDayCare:
		g.DayCare++
	case BucketBanho:
		g.Banho++
	case BucketTosa:
		g.Tosa++
	case BucketHospedagem:
		g.Hospedagem++
	case BucketTransporte:
		g.Transporte++
	}
}

// Total returns the sum of all buckets
func (g Gaps) Total() int {
	return g.DayCare + g.Banho + g.Tosa + g.Hospedagem + g.Transporte
}

// bucketRule lists the check-in labels that satisfy one bucket.
// An empty label list means the bucket can never be matched.
type bucketRule struct {
	bucket Bucket
	labels []string
}

var serviceRules = map[scheduling.ServiceType][]bucketRule{
	scheduling.ServiceTypeDayCare:    {{BucketDayCare, []string{"Day Care"}}},
	scheduling.ServiceTypeBanho:      {{BucketBanho, []string{"Banho"}}},
	scheduling.ServiceTypeTosa:       {{BucketTosa, []string{"Tosa"}}},
	scheduling.ServiceTypeHospedagem: {{BucketHospedagem, []string{"Hospedagem"}}},
	scheduling.ServiceTypeBanhoTosa: {
		{BucketBanho, []string{"Banho e Tosa", "Banho"}},
		{BucketTosa, []string{"Banho e Tosa", "Tosa"}},
	},
	scheduling.ServiceTypeTransporte: {{BucketTransporte, nil}},
}

// GapCalculator cross-references booked appointments with check-ins
type GapCalculator struct {
	location *time.Location
}

// NewGapCalculator creates a calculator comparing calendar days in loc.
// A nil loc means UTC.
func NewGapCalculator(loc *time.Location) *GapCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &GapCalculator{location: loc}
}

// normalizeLabel collapses whitespace and case-folds a label.
// Casers are stateful, so each ComputeGaps call owns its own.
func normalizeLabel(folder cases.Caser, label string) string {
	return folder.String(strings.Join(strings.Fields(label), " "))
}

// ComputeGaps counts, for one dog, the past non-cancelled appointments that
// have no check-in with an accepted label on the same calendar day.
// banho_tosa is counted against banho and tosa independently.
func (c *GapCalculator) ComputeGaps(
	dogID uuid.UUID,
	appointments []scheduling.Appointment,
	checkins []Checkin,
	today time.Time,
) Gaps {
	folder := cases.Fold()

	// Folded labels seen per calendar day
	seen := make(map[time.Time]map[string]struct{})
	for _, ci := range checkins {
		if ci.DogID != dogID {
			continue
		}
		day := shared.DateOf(ci.CheckedInAt, c.location)
		if seen[day] == nil {
			seen[day] = make(map[string]struct{})
		}
		seen[day][normalizeLabel(folder, ci.ServiceLabel)] = struct{}{}
	}

	var gaps Gaps
	for _, appt := range appointments {
		if appt.DogID != dogID || appt.IsCancelled() {
			continue
		}
		if !shared.BeforeDay(appt.ScheduledAt, today, c.location) {
			continue
		}
		labelsThatDay := seen[shared.DateOf(appt.ScheduledAt, c.location)]
		for _, rule := range serviceRules[appt.ServiceType] {
			if !matches(folder, rule, labelsThatDay) {
				gaps.add(rule.bucket)
			}
		}
	}
	return gaps
}

func matches(folder cases.Caser, rule bucketRule, labels map[string]struct{}) bool {
	for _, l := range rule.labels {
		if _, ok := labels[normalizeLabel(folder, l)]; ok {
			return true
		}
	}
	return false
}

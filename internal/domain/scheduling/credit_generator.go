package scheduling

import "time"

// Conversion pairs a new credit with the appointment it replaced.
// Both must be persisted together.
type Conversion struct {
	Credit      *ReplacementCredit
	Appointment *Appointment
}

// CreditGenerator converts paid, unused, past appointments into replacement
// credits. The appointment's Replaced flag is the only guard, so Scan can be
// rerun safely.
type CreditGenerator struct {
	location *time.Location
}

// NewCreditGenerator creates a generator comparing calendar days in loc.
// A nil loc means UTC.
func NewCreditGenerator(loc *time.Location) *CreditGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &CreditGenerator{location: loc}
}

// Scan mints one available credit per qualifying appointment and flags the
// appointment as replaced. Appointments that do not qualify are untouched.
func (g *CreditGenerator) Scan(appointments []*Appointment, today time.Time) []Conversion {
	conversions := make([]Conversion, 0)
	for _, appt := range appointments {
		if appt == nil || !appt.QualifiesForCredit(today, g.location) {
			continue
		}
		credit := newReplacementCredit(appt, today)
		appt.markReplaced()
		conversions = append(conversions, Conversion{Credit: credit, Appointment: appt})
	}
	return conversions
}

// Convert converts a single appointment, failing if it does not qualify
func (g *CreditGenerator) Convert(appt *Appointment, today time.Time) (*Conversion, error) {
	if appt == nil {
		return nil, ErrAppointmentNotFound
	}
	if appt.Replaced {
		return nil, ErrAlreadyReplaced
	}
	if !appt.QualifiesForCredit(today, g.location) {
		return nil, ErrNotEligible
	}
	out := g.Scan([]*Appointment{appt}, today)
	return &out[0], nil
}

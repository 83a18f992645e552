package visit

import "time"

// Derivation defaults. All tunable through DeriveRules.
const (
	DefaultRevenueLossAmount = 5000.0
	DefaultPediatricMaxAge   = 18 // ages below are Pediatric
	DefaultSeniorMinAge      = 60 // ages at or above are Senior
)

// DeriveRules are the tunable parameters of metric derivation.
type DeriveRules struct {
	RevenueLossAmount float64
	PediatricMaxAge   int
	SeniorMinAge      int
}

// DefaultDeriveRules returns the standard loss amount and age bins.
func DefaultDeriveRules() DeriveRules {
	return DeriveRules{
		RevenueLossAmount: DefaultRevenueLossAmount,
		PediatricMaxAge:   DefaultPediatricMaxAge,
		SeniorMinAge:      DefaultSeniorMinAge,
	}
}

// Deriver computes the derived analytics fields for a clean record.
type Deriver struct {
	rules DeriveRules
}

// NewDeriver returns a deriver over the given rules. Zero-valued rules
// fall back to the defaults.
func NewDeriver(rules DeriveRules) *Deriver {
	if rules == (DeriveRules{}) {
		rules = DefaultDeriveRules()
	}
	return &Deriver{rules: rules}
}

// Derive produces the analytics record for one clean record. It is a
// pure function: same input, same output, no shared state.
func (d *Deriver) Derive(c CleanVisitRecord) AnalyticsVisitRecord {
	a := AnalyticsVisitRecord{CleanVisitRecord: c}

	a.ArrivalToTriageMin = minutesBetween(c.Arrival, c.Triage)
	a.TriageToDoctorMin = minutesBetween(c.Triage, c.Doctor)
	a.DoctorToDischargeMin = minutesBetween(c.Doctor, c.Discharge)
	a.TotalMin = minutesBetween(c.Arrival, c.Discharge)

	// Arrival is never absent per the source contract; the guard keeps
	// derivation total if that contract is ever violated upstream.
	if c.Arrival != nil {
		a.ArrivalHour = int32(c.Arrival.Hour())
		a.ArrivalDay = c.Arrival.Weekday().String()
		a.ArrivalMonth = int32(c.Arrival.Month())
		a.ArrivalDate = c.Arrival.Format("2006-01-02")
	}

	a.VisitStatus = classifyStatus(c)
	if a.VisitStatus == StatusLeftBeforeTriage || a.VisitStatus == StatusLeftBeforeDoctor {
		a.RevenueLost = d.rules.RevenueLossAmount
	}
	a.AgeGroup = d.ageGroup(c.Age)

	return a
}

// classifyStatus applies the LWBS rules in order; the first matching
// rule wins, so every record maps to exactly one status.
func classifyStatus(c CleanVisitRecord) VisitStatus {
	switch {
	case c.Triage == nil:
		return StatusLeftBeforeTriage
	case c.Doctor == nil:
		return StatusLeftBeforeDoctor
	case c.Discharge == nil:
		return StatusLeftBeforeDischarge
	default:
		return StatusCompleted
	}
}

func (d *Deriver) ageGroup(age *int) AgeGroup {
	switch {
	case age == nil:
		return AgeUnknown
	case *age < d.rules.PediatricMaxAge:
		return AgePediatric
	case *age >= d.rules.SeniorMinAge:
		return AgeSenior
	default:
		return AgeAdult
	}
}

// minutesBetween returns the whole-minute difference b-a, or nil when
// either endpoint is absent.
func minutesBetween(a, b *time.Time) *int64 {
	if a == nil || b == nil {
		return nil
	}
	m := int64(b.Sub(*a) / time.Minute)
	return &m
}

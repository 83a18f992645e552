package visit

import "time"

// RawVisitRecord is one emergency-department visit exactly as it arrives
// from the source extract. Every field is text: the feed mixes several
// timestamp encodings, free-text categories, and outright invalid tokens
// (ages like "999", blank identifiers) that would break a typed load.
// An empty string means the source value was null or missing.
//
// Contract with the source store: VisitID is always present and unique
// (it is the row identity and the dedup tie-break), and ArrivalTime text
// is always non-empty. Everything else may be blank.
type RawVisitRecord struct {
	VisitID         string
	PatientID       string
	ArrivalTime     string
	TriageTime      string
	DoctorTime      string
	DischargeTime   string
	Complaint       string
	Severity        string
	Age             string
	InsuranceStatus string
	DoctorID        string
	NurseID         string
}

// AgeQuality classifies the outcome of age validation.
type AgeQuality string

const (
	AgeValid   AgeQuality = "Valid"
	AgeMissing AgeQuality = "Missing"
	AgeInvalid AgeQuality = "Invalid"
)

// PatientIDQuality classifies whether the patient identifier was present
// at the source or replaced with the sentinel.
type PatientIDQuality string

const (
	PatientIDValid   PatientIDQuality = "Valid"
	PatientIDMissing PatientIDQuality = "Missing"
)

// CleanVisitRecord is the standardized form of a surviving raw record.
//
// Timestamps are canonical instants; nil means the value is absent
// downstream, whether the source field was empty or present but
// unparseable (TimestampOutcome reports those as distinct outcomes for
// auditing, but the record carries only the resulting value).
// PatientID is never empty: absence is replaced by a
// sentinel and flagged. Doctor/nurse identifiers pass through untouched;
// their absence is a staffing signal, not a data defect.
type CleanVisitRecord struct {
	VisitID          string
	PatientID        string
	PatientIDQuality PatientIDQuality
	Arrival          *time.Time
	Triage           *time.Time
	Doctor           *time.Time
	Discharge        *time.Time
	Complaint        string
	Severity         string
	Age              *int
	AgeQuality       AgeQuality
	InsuranceStatus  string
	DoctorID         string
	NurseID          string
}

// VisitStatus classifies how far through the department a patient got.
// Exactly one status applies to every clean record.
type VisitStatus string

const (
	StatusLeftBeforeTriage    VisitStatus = "Left Before Triage"
	StatusLeftBeforeDoctor    VisitStatus = "Left Before Doctor"
	StatusLeftBeforeDischarge VisitStatus = "Left Before Discharge"
	StatusCompleted           VisitStatus = "Completed Visit"
)

// AgeGroup is the demographic bin derived from validated age.
type AgeGroup string

const (
	AgePediatric AgeGroup = "Pediatric"
	AgeAdult     AgeGroup = "Adult"
	AgeSenior    AgeGroup = "Senior"
	AgeUnknown   AgeGroup = "Unknown"
)

// AnalyticsVisitRecord is a CleanVisitRecord enriched with derived
// operational and financial fields. Every derived field is a pure
// function of the clean record; nothing here is independently mutated
// after derivation. This is the final artifact handed to reporting.
//
// Interval durations are whole minutes and nil when either endpoint is
// absent. Temporal bins come from arrival time, which the source
// contract guarantees present; if arrival nevertheless failed to parse
// the bins are zero-valued and all durations are nil.
type AnalyticsVisitRecord struct {
	CleanVisitRecord

	ArrivalToTriageMin   *int64
	TriageToDoctorMin    *int64
	DoctorToDischargeMin *int64
	TotalMin             *int64

	ArrivalHour  int32
	ArrivalDay   string
	ArrivalMonth int32
	ArrivalDate  string

	VisitStatus VisitStatus
	RevenueLost float64
	AgeGroup    AgeGroup
}

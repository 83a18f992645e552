package visit

import "time"

// StandardizeNote carries per-record data-quality observations out of
// standardization for the audit summary. The clean record itself only
// holds resulting values and flags.
type StandardizeNote struct {
	UnparseableTimestamps int
	AbsentTimestamps      int
	UnknownComplaint      bool
}

// Standardizer composes the timestamp resolver, category normalizer and
// field validator into a per-record cleaning step. It performs no
// cross-record logic and cannot fail: every malformed input degrades to
// an absent or flagged value.
type Standardizer struct {
	Timestamps *TimestampResolver
	Categories *CategoryNormalizer
	Fields     *FieldValidator
}

// NewStandardizer wires a standardizer from its three components. Nil
// components get defaults.
func NewStandardizer(ts *TimestampResolver, cn *CategoryNormalizer, fv *FieldValidator) *Standardizer {
	if ts == nil {
		ts = NewTimestampResolver(nil)
	}
	if cn == nil {
		cn = NewCategoryNormalizer(nil)
	}
	if fv == nil {
		fv = NewFieldValidator()
	}
	return &Standardizer{Timestamps: ts, Categories: cn, Fields: fv}
}

// Standardize produces one CleanVisitRecord from a surviving raw record.
// The four timestamps are resolved independently: one row may mix
// encodings across its fields, so no encoding is assumed shared.
func (s *Standardizer) Standardize(raw RawVisitRecord) (CleanVisitRecord, StandardizeNote) {
	var note StandardizeNote

	clean := CleanVisitRecord{
		VisitID:  raw.VisitID,
		DoctorID: raw.DoctorID,
		NurseID:  raw.NurseID,
	}

	clean.Arrival = s.resolveCounted(raw.ArrivalTime, &note)
	clean.Triage = s.resolveCounted(raw.TriageTime, &note)
	clean.Doctor = s.resolveCounted(raw.DoctorTime, &note)
	clean.Discharge = s.resolveCounted(raw.DischargeTime, &note)

	var matched bool
	clean.Complaint, matched = s.Categories.Normalize(raw.Complaint)
	note.UnknownComplaint = !matched

	clean.Severity = s.Fields.Severity(raw.Severity)
	clean.Age, clean.AgeQuality = s.Fields.Age(raw.Age)
	clean.PatientID, clean.PatientIDQuality = s.Fields.PatientID(raw.PatientID)
	clean.InsuranceStatus = s.Fields.Insurance(raw.InsuranceStatus)

	return clean, note
}

func (s *Standardizer) resolveCounted(text string, note *StandardizeNote) *time.Time {
	t, outcome := s.Timestamps.Resolve(text)
	switch outcome {
	case TimestampAbsent:
		note.AbsentTimestamps++
	case TimestampUnparseable:
		note.UnparseableTimestamps++
	}
	return t
}

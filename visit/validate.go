package visit

import (
	"strconv"
	"strings"
)

// Field validation defaults. All tunable through FieldValidator.
const (
	DefaultMinAge            = 1
	DefaultMaxAge            = 120
	DefaultPatientSentinel   = "UNKNOWN_PATIENT"
	DefaultInsuranceSentinel = "Unknown"
)

// FieldValidator validates age and identifier fields, producing cleaned
// values plus quality flags. Records are never rejected: out-of-domain
// values are nulled and flagged, missing values become sentinels or
// absent.
type FieldValidator struct {
	MinAge            int
	MaxAge            int
	PatientSentinel   string
	InsuranceSentinel string
}

// NewFieldValidator returns a validator with the default age bounds and
// sentinels.
func NewFieldValidator() *FieldValidator {
	return &FieldValidator{
		MinAge:            DefaultMinAge,
		MaxAge:            DefaultMaxAge,
		PatientSentinel:   DefaultPatientSentinel,
		InsuranceSentinel: DefaultInsuranceSentinel,
	}
}

// Age parses raw age text. A parseable integer inside [MinAge, MaxAge]
// is Valid. Non-numeric or empty text yields a nil age flagged Missing;
// a parseable integer outside the bounds yields a nil age flagged
// Invalid. The record is kept either way, only the value is nulled.
func (v *FieldValidator) Age(raw string) (*int, AgeQuality) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, AgeMissing
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, AgeMissing
	}
	if n < v.MinAge || n > v.MaxAge {
		return nil, AgeInvalid
	}
	return &n, AgeValid
}

// PatientID replaces a null/empty identifier with the sentinel and flags
// it Missing; any non-empty value passes through flagged Valid.
func (v *FieldValidator) PatientID(raw string) (string, PatientIDQuality) {
	if strings.TrimSpace(raw) == "" {
		return v.PatientSentinel, PatientIDMissing
	}
	return raw, PatientIDValid
}

// Insurance replaces a null/empty status with the sentinel. No quality
// flag is tracked for this field.
func (v *FieldValidator) Insurance(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return v.InsuranceSentinel
	}
	return raw
}

// Severity canonicalizes a severity token by capitalizing its first
// letter and lowercasing the rest. Severities are single words with no
// prepositions, so the transform is safe here; it is wrong for
// multi-word categories, which is what the complaint table is for.
func (v *FieldValidator) Severity(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

package visit

// dedupKey is the domain key for physical-duplicate detection: raw
// patient identifier text plus raw arrival text, both exactly as they
// appear in the source. A physical patient cannot register two arrivals
// at the identical timestamp, so identical pairs are injected
// duplicates, not repeat visits.
//
// Because the key uses raw values, records with a blank patient
// identifier and the same arrival string collapse into one survivor
// even when they may be distinct real patients. That over-collapse is a
// documented property of the key, accepted as-is; do not "fix" it by
// keying on cleaned values.
type dedupKey struct {
	patientID string
	arrival   string
}

// Deduplicate drops all but one record per (raw patient id, raw arrival
// text) group. The survivor is the record with the minimum visit
// identifier in ascending order; groups of size 1 are never reduced.
// Survivors keep their input order. The dropped count is returned for
// audit; duplicates are otherwise removed silently and permanently.
func Deduplicate(records []RawVisitRecord) ([]RawVisitRecord, int) {
	survivor := make(map[dedupKey]string, len(records))
	for _, r := range records {
		k := dedupKey{r.PatientID, r.ArrivalTime}
		if id, ok := survivor[k]; !ok || r.VisitID < id {
			survivor[k] = r.VisitID
		}
	}

	kept := make([]RawVisitRecord, 0, len(survivor))
	for _, r := range records {
		if survivor[dedupKey{r.PatientID, r.ArrivalTime}] == r.VisitID {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

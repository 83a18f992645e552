package visit

import "strings"

// DefaultCategoryTable maps dirty complaint variants (uppercased,
// trimmed) to the 12 canonical labels. The variants cover case
// differences and the "spaced slash" punctuation seen on the two slash
// categories.
//
// A generic capitalize-each-word transform is deliberately not used for
// normalization: it would mangle prepositions ("Shortness of Breath"
// becomes "Shortness Of Breath"). The table is the policy.
func DefaultCategoryTable() map[string]string {
	return map[string]string{
		"ABDOMINAL PAIN":      "Abdominal Pain",
		"ALLERGIC REACTION":   "Allergic Reaction",
		"BACK PAIN":           "Back Pain",
		"CHEST PAIN":          "Chest Pain",
		"DIZZINESS":           "Dizziness",
		"FEVER":               "Fever",
		"HEADACHE":            "Headache",
		"INJURY/TRAUMA":       "Injury/Trauma",
		"INJURY / TRAUMA":     "Injury/Trauma",
		"MINOR CUTS":          "Minor Cuts",
		"NAUSEA/VOMITING":     "Nausea/Vomiting",
		"NAUSEA / VOMITING":   "Nausea/Vomiting",
		"RESPIRATORY ISSUES":  "Respiratory Issues",
		"SHORTNESS OF BREATH": "Shortness of Breath",
	}
}

// CategoryNormalizer maps raw free-text complaint labels to a fixed
// canonical vocabulary via an immutable lookup table.
type CategoryNormalizer struct {
	table map[string]string
}

// NewCategoryNormalizer returns a normalizer over the given variant to
// canonical-label table. A nil table falls back to DefaultCategoryTable.
// The table is copied; later mutation of the argument has no effect.
func NewCategoryNormalizer(table map[string]string) *CategoryNormalizer {
	if table == nil {
		table = DefaultCategoryTable()
	}
	own := make(map[string]string, len(table))
	for k, v := range table {
		own[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return &CategoryNormalizer{table: own}
}

// Normalize uppercases and trims the raw text and looks it up in the
// table. Unrecognized complaints pass through unchanged (the original
// raw text, not the uppercased key) with matched=false; the pipeline
// never fails on an unknown complaint.
func (n *CategoryNormalizer) Normalize(raw string) (label string, matched bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if canonical, ok := n.table[key]; ok {
		return canonical, true
	}
	return raw, false
}

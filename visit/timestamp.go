package visit

import (
	"strings"
	"time"
)

// TimestampOutcome distinguishes why a resolved timestamp may be nil.
// Absent (null/empty at the source) and Unparseable (text present but
// matching no known encoding) both surface as a missing value
// downstream, but they are different data-quality facts and are counted
// separately in the audit summary.
type TimestampOutcome int

const (
	TimestampParsed TimestampOutcome = iota
	TimestampAbsent
	TimestampUnparseable
)

// DefaultTimestampLayouts are the known source encodings, in resolution
// order. Order matters: some encodings are structurally ambiguous
// subsets of others, so the first successful parse wins.
//
//  1. 2006-01-02 15:04:05  full precision, seconds included
//  2. 2006/01/02 15:04     slash-delimited, minute precision
//  3. 02-Jan-2006 15:04    day-first, three-letter month name
//  4. Jan 02 2006 15:04    month-first, three-letter month name
//
// Month names match case-insensitively ("APR", "apr" both resolve);
// the time package folds ASCII case on name lookups.
func DefaultTimestampLayouts() []string {
	return []string{
		"2006-01-02 15:04:05",
		"2006/01/02 15:04",
		"02-Jan-2006 15:04",
		"Jan 02 2006 15:04",
	}
}

// TimestampResolver parses raw timestamp text against an ordered list of
// candidate layouts.
type TimestampResolver struct {
	layouts []string
}

// NewTimestampResolver returns a resolver over the given ordered layout
// list. An empty list falls back to DefaultTimestampLayouts.
func NewTimestampResolver(layouts []string) *TimestampResolver {
	if len(layouts) == 0 {
		layouts = DefaultTimestampLayouts()
	}
	return &TimestampResolver{layouts: layouts}
}

// Resolve returns the instant produced by the first layout that parses
// the text. A nil instant is returned with TimestampAbsent for
// null/empty input and TimestampUnparseable for non-empty input that
// matches no layout. Resolution never fails the pipeline.
func (r *TimestampResolver) Resolve(raw string) (*time.Time, TimestampOutcome) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, TimestampAbsent
	}
	for _, layout := range r.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, TimestampParsed
		}
	}
	return nil, TimestampUnparseable
}

// Format renders an instant in the canonical (first) layout.
func (r *TimestampResolver) Format(t time.Time) string {
	return t.Format(r.layouts[0])
}

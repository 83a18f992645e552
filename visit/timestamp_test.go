package visit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEachEncoding(t *testing.T) {
	r := NewTimestampResolver(nil)

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"dash full precision", "2024-04-15 14:30:00", time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)},
		{"slash minute precision", "2024/04/15 14:30", time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)},
		{"day-first month name", "15-Apr-2024 14:30", time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)},
		{"month-first month name", "Apr 15 2024 14:30", time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, outcome := r.Resolve(tt.raw)
			require.Equal(t, TimestampParsed, outcome)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestResolveRoundTrip(t *testing.T) {
	// Serializing a valid instant in any supported encoding and resolving
	// it must return the same instant. Instants are minute-aligned except
	// for the seconds-bearing first encoding.
	layouts := DefaultTimestampLayouts()
	r := NewTimestampResolver(layouts)

	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2023, 7, 4, 9, 5, 0, 0, time.UTC),
	}
	for _, layout := range layouts {
		for _, want := range instants {
			got, outcome := r.Resolve(want.Format(layout))
			require.Equal(t, TimestampParsed, outcome, "layout %q instant %v", layout, want)
			assert.True(t, got.Equal(want), "layout %q: got %v, want %v", layout, got, want)
		}
	}
}

func TestResolveMonthNameCaseInsensitive(t *testing.T) {
	r := NewTimestampResolver(nil)
	want := time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)

	for _, raw := range []string{"Apr 15 2024 14:30", "APR 15 2024 14:30", "apr 15 2024 14:30", "15-JAN-2024 08:30"} {
		got, outcome := r.Resolve(raw)
		require.Equal(t, TimestampParsed, outcome, "raw %q", raw)
		require.NotNil(t, got)
		if raw == "15-JAN-2024 08:30" {
			assert.True(t, got.Equal(time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)))
		} else {
			assert.True(t, got.Equal(want), "raw %q: got %v", raw, got)
		}
	}
}

func TestResolveAbsentVersusUnparseable(t *testing.T) {
	r := NewTimestampResolver(nil)

	got, outcome := r.Resolve("")
	assert.Nil(t, got)
	assert.Equal(t, TimestampAbsent, outcome)

	got, outcome = r.Resolve("   ")
	assert.Nil(t, got)
	assert.Equal(t, TimestampAbsent, outcome)

	for _, raw := range []string{"not a date", "2024-13-45 99:99:99", "15/04/2024 14:30", "2024-04-15"} {
		got, outcome = r.Resolve(raw)
		assert.Nil(t, got, "raw %q", raw)
		assert.Equal(t, TimestampUnparseable, outcome, "raw %q", raw)
	}
}

func TestResolveOrderFirstMatchWins(t *testing.T) {
	// A custom layout list where the second layout would also accept the
	// text must still resolve via the first.
	r := NewTimestampResolver([]string{"2006-01-02 15:04", "2006-01-02 15:04:05"})
	got, outcome := r.Resolve("2024-04-15 14:30")
	require.Equal(t, TimestampParsed, outcome)
	assert.True(t, got.Equal(time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)))
}

func TestFormatUsesCanonicalLayout(t *testing.T) {
	r := NewTimestampResolver(nil)
	assert.Equal(t, "2024-04-15 14:30:00", r.Format(time.Date(2024, 4, 15, 14, 30, 0, 0, time.UTC)))
}

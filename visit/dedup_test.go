package visit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRec(visitID, patientID, arrival string) RawVisitRecord {
	return RawVisitRecord{VisitID: visitID, PatientID: patientID, ArrivalTime: arrival}
}

func TestDeduplicateKeepsMinVisitID(t *testing.T) {
	records := []RawVisitRecord{
		rawRec("V2", "P1", "2024-04-15 14:30:00"),
		rawRec("V1", "P1", "2024-04-15 14:30:00"),
	}

	kept, dropped := Deduplicate(records)
	require.Len(t, kept, 1)
	assert.Equal(t, "V1", kept[0].VisitID)
	assert.Equal(t, 1, dropped)
}

func TestDeduplicateNeverReducesSingletons(t *testing.T) {
	records := []RawVisitRecord{
		rawRec("V1", "P1", "2024-04-15 14:30:00"),
		rawRec("V2", "P2", "2024-04-15 14:30:00"),
		rawRec("V3", "P1", "2024-04-16 09:00:00"),
	}

	kept, dropped := Deduplicate(records)
	assert.Len(t, kept, 3)
	assert.Equal(t, 0, dropped)
}

func TestDeduplicateGroupOfN(t *testing.T) {
	records := []RawVisitRecord{
		rawRec("V9", "P1", "2024-04-15 14:30:00"),
		rawRec("V3", "P1", "2024-04-15 14:30:00"),
		rawRec("V5", "P1", "2024-04-15 14:30:00"),
		rawRec("V1", "P2", "2024-04-15 14:30:00"),
	}

	kept, dropped := Deduplicate(records)
	require.Len(t, kept, 2)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, "V3", kept[0].VisitID)
	assert.Equal(t, "V1", kept[1].VisitID)
}

func TestDeduplicateBlankPatientIDOverCollapse(t *testing.T) {
	// Records with a blank patient identifier and the same raw arrival
	// string collapse into one survivor even though they may be distinct
	// real patients. This is the documented behavior of the raw-value
	// key, not something to correct.
	records := []RawVisitRecord{
		rawRec("V2", "", "2024-04-15 14:30:00"),
		rawRec("V1", "", "2024-04-15 14:30:00"),
		rawRec("V3", "", "2024-04-15 14:30:00"),
	}

	kept, dropped := Deduplicate(records)
	require.Len(t, kept, 1)
	assert.Equal(t, "V1", kept[0].VisitID)
	assert.Equal(t, 2, dropped)
}

func TestDeduplicateKeyUsesRawText(t *testing.T) {
	// Same instant written in two different encodings is two different
	// raw strings, so the records are NOT duplicates under the key.
	records := []RawVisitRecord{
		rawRec("V1", "P1", "2024-04-15 14:30:00"),
		rawRec("V2", "P1", "Apr 15 2024 14:30"),
	}

	kept, dropped := Deduplicate(records)
	assert.Len(t, kept, 2)
	assert.Equal(t, 0, dropped)
}

func TestDeduplicatePreservesInputOrder(t *testing.T) {
	records := []RawVisitRecord{
		rawRec("V5", "P3", "a"),
		rawRec("V4", "P2", "b"),
		rawRec("V9", "P3", "a"),
		rawRec("V1", "P1", "c"),
	}

	kept, _ := Deduplicate(records)
	require.Len(t, kept, 3)
	assert.Equal(t, "V5", kept[0].VisitID)
	assert.Equal(t, "V4", kept[1].VisitID)
	assert.Equal(t, "V1", kept[2].VisitID)
}

func TestDeduplicateEmptyInput(t *testing.T) {
	kept, dropped := Deduplicate(nil)
	assert.Empty(t, kept)
	assert.Equal(t, 0, dropped)
}

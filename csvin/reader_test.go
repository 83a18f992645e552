package csvin

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeExtract creates a visit extract CSV test file.
func writeExtract(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "visits.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write extract: %v", err)
	}
	return path
}

const sampleExtract = `visit_id,patient_id,arrival_time,triage_time,doctor_assignment_time,discharge_time,complaint,severity,age,insurance_status,doctor_id,nurse_id
V1,P1,2024-04-15 14:30:00,2024/04/15 14:45,15-Apr-2024 15:10,Apr 15 2024 16:00,chest pain,critical,67,Insured,D7,N3
V2,,2024-04-15 14:30:00,,,,Fever,,abc,,,

V3,P2,Apr 16 2024 09:00,,,,"Injury / Trauma",moderate,34,Uninsured,D2,
`

func TestReaderReadsAllRows(t *testing.T) {
	path := writeExtract(t, sampleExtract)

	r, err := New(path)
	if err != nil {
		t.Fatalf("New(%s): %v", path, err)
	}
	defer r.Close()

	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (empty row skipped)", len(records))
	}

	r0 := records[0]
	if r0.VisitID != "V1" {
		t.Errorf("VisitID = %q, want V1", r0.VisitID)
	}
	if r0.PatientID != "P1" {
		t.Errorf("PatientID = %q, want P1", r0.PatientID)
	}
	if r0.ArrivalTime != "2024-04-15 14:30:00" {
		t.Errorf("ArrivalTime = %q", r0.ArrivalTime)
	}
	if r0.TriageTime != "2024/04/15 14:45" {
		t.Errorf("TriageTime = %q", r0.TriageTime)
	}
	if r0.DoctorTime != "15-Apr-2024 15:10" {
		t.Errorf("DoctorTime = %q", r0.DoctorTime)
	}
	if r0.DischargeTime != "Apr 15 2024 16:00" {
		t.Errorf("DischargeTime = %q", r0.DischargeTime)
	}
	if r0.Complaint != "chest pain" || r0.Severity != "critical" || r0.Age != "67" {
		t.Errorf("unexpected complaint/severity/age: %q %q %q", r0.Complaint, r0.Severity, r0.Age)
	}
	if r0.DoctorID != "D7" || r0.NurseID != "N3" {
		t.Errorf("unexpected staff ids: %q %q", r0.DoctorID, r0.NurseID)
	}

	// Blank fields come through as empty strings, untouched.
	r1 := records[1]
	if r1.PatientID != "" || r1.TriageTime != "" || r1.DoctorID != "" {
		t.Errorf("blank fields not preserved: %+v", r1)
	}
	if r1.Age != "abc" {
		t.Errorf("Age = %q, want raw token %q", r1.Age, "abc")
	}

	// Quoted fields keep embedded spacing.
	if records[2].Complaint != "Injury / Trauma" {
		t.Errorf("Complaint = %q, want %q", records[2].Complaint, "Injury / Trauma")
	}
}

func TestReaderHeaderCaseInsensitive(t *testing.T) {
	path := writeExtract(t, "Visit_ID,Patient_ID,Arrival_Time\nV1,P1,2024-04-15 14:30:00\n")

	r, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.VisitID != "V1" || rec.ArrivalTime != "2024-04-15 14:30:00" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestReaderSkipsBOM(t *testing.T) {
	path := writeExtract(t, "\xEF\xBB\xBFvisit_id,arrival_time\nV1,2024-04-15 14:30:00\n")

	r, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.VisitID != "V1" {
		t.Errorf("VisitID = %q, want V1", rec.VisitID)
	}
}

func TestReaderMissingRequiredColumn(t *testing.T) {
	path := writeExtract(t, "patient_id,arrival_time\nP1,2024-04-15 14:30:00\n")

	_, err := New(path)
	if err == nil {
		t.Fatal("expected error for missing visit_id column")
	}
	if !strings.Contains(err.Error(), "visit_id") {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestReaderBlankVisitIDFatal(t *testing.T) {
	path := writeExtract(t, "visit_id,arrival_time\nV1,2024-04-15 14:30:00\n,2024-04-15 15:00:00\n")

	r, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if _, err := r.Next(); err == nil || err == io.EOF {
		t.Fatalf("Next = %v, want structural error for blank visit_id", err)
	}
}

func TestReaderEOF(t *testing.T) {
	path := writeExtract(t, "visit_id,arrival_time\nV1,2024-04-15 14:30:00\n")

	r, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next = %v, want io.EOF", err)
	}
}

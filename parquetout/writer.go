// Package parquetout exports the enriched analytics dataset to Parquet
// for columnar query engines.
package parquetout

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"edvisits/visit"
)

// timestampLayout is the canonical rendering of instants in the export.
const timestampLayout = "2006-01-02 15:04:05"

// AnalyticsRow is the Parquet-compatible shape of one enriched visit.
//
//   - Optional (*type) fields use the Parquet native null bitmap, so
//     absent timestamps and durations stay distinguishable from zero
//     and IS NULL predicates push down.
//   - String enums (visit_status, age_group, quality flags)
//     dictionary-encode automatically.
//   - Timestamps are canonical strings rather than physical timestamps
//     so the export is self-describing next to the text-heavy source.
type AnalyticsRow struct {
	VisitID          string  `parquet:"visit_id"`
	PatientID        string  `parquet:"patient_id"`
	PatientIDQuality string  `parquet:"patient_id_quality"`
	ArrivalTime      *string `parquet:"arrival_time,optional"`
	TriageTime       *string `parquet:"triage_time,optional"`
	DoctorTime       *string `parquet:"doctor_assignment_time,optional"`
	DischargeTime    *string `parquet:"discharge_time,optional"`
	Complaint        string  `parquet:"complaint"`
	Severity         string  `parquet:"severity"`
	Age              *int32  `parquet:"age,optional"`
	AgeQuality       string  `parquet:"age_quality"`
	InsuranceStatus  string  `parquet:"insurance_status"`
	DoctorID         *string `parquet:"doctor_id,optional"`
	NurseID          *string `parquet:"nurse_id,optional"`

	ArrivalToTriageMin   *int64 `parquet:"arrival_to_triage_min,optional"`
	TriageToDoctorMin    *int64 `parquet:"triage_to_doctor_min,optional"`
	DoctorToDischargeMin *int64 `parquet:"doctor_to_discharge_min,optional"`
	TotalMin             *int64 `parquet:"total_min,optional"`

	ArrivalHour  int32  `parquet:"arrival_hour"`
	ArrivalDay   string `parquet:"arrival_day"`
	ArrivalMonth int32  `parquet:"arrival_month"`
	ArrivalDate  string `parquet:"arrival_date"`

	VisitStatus string  `parquet:"visit_status"`
	RevenueLost float64 `parquet:"revenue_lost"`
	AgeGroup    string  `parquet:"age_group"`
}

const flushInterval = 100_000

// Writer writes analytics records to a Parquet file.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[AnalyticsRow]
	count  int
}

// NewWriter creates a Parquet file writer with Snappy compression.
func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[AnalyticsRow](file,
		parquet.Compression(&parquet.Snappy),
	)

	return &Writer{file: file, writer: writer}, nil
}

// Write appends the given records, flushing a row group periodically to
// bound memory usage.
func (w *Writer) Write(records []visit.AnalyticsVisitRecord) (int, error) {
	for _, rec := range records {
		if _, err := w.writer.Write([]AnalyticsRow{toRow(rec)}); err != nil {
			return w.count, fmt.Errorf("write parquet record %s: %w", rec.VisitID, err)
		}
		w.count++

		if w.count%flushInterval == 0 {
			if err := w.writer.Flush(); err != nil {
				return w.count, fmt.Errorf("flush parquet row group: %w", err)
			}
		}
	}
	return w.count, nil
}

// Close flushes and closes the writer.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

func toRow(rec visit.AnalyticsVisitRecord) AnalyticsRow {
	row := AnalyticsRow{
		VisitID:          rec.VisitID,
		PatientID:        rec.PatientID,
		PatientIDQuality: string(rec.PatientIDQuality),
		ArrivalTime:      fmtTime(rec.Arrival),
		TriageTime:       fmtTime(rec.Triage),
		DoctorTime:       fmtTime(rec.Doctor),
		DischargeTime:    fmtTime(rec.Discharge),
		Complaint:        rec.Complaint,
		Severity:         rec.Severity,
		AgeQuality:       string(rec.AgeQuality),
		InsuranceStatus:  rec.InsuranceStatus,
		DoctorID:         optStr(rec.DoctorID),
		NurseID:          optStr(rec.NurseID),

		ArrivalToTriageMin:   rec.ArrivalToTriageMin,
		TriageToDoctorMin:    rec.TriageToDoctorMin,
		DoctorToDischargeMin: rec.DoctorToDischargeMin,
		TotalMin:             rec.TotalMin,

		ArrivalHour:  rec.ArrivalHour,
		ArrivalDay:   rec.ArrivalDay,
		ArrivalMonth: rec.ArrivalMonth,
		ArrivalDate:  rec.ArrivalDate,

		VisitStatus: string(rec.VisitStatus),
		RevenueLost: rec.RevenueLost,
		AgeGroup:    string(rec.AgeGroup),
	}
	if rec.Age != nil {
		age := int32(*rec.Age)
		row.Age = &age
	}
	return row
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timestampLayout)
	return &s
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package csvin streams raw emergency-department visit extracts from
// CSV into RawVisitRecord values. It is the source-store boundary: a
// row without a visit identifier violates the input contract and is a
// fatal error here, while every other malformation is passed through as
// text for the pipeline to absorb.
package csvin

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"edvisits/visit"
)

// Reader streams a visit extract CSV and emits one RawVisitRecord per
// data row.
type Reader struct {
	file   *os.File
	csv    *csv.Reader
	rowNum int64
	colIdx map[string]int // lowercase header → column index
}

// New opens the extract and reads its header row. The header must carry
// visit_id and arrival_time columns; every other column is optional.
func New(filepath string) (*Reader, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	r := &Reader{
		file:   file,
		csv:    reader,
		colIdx: make(map[string]int),
	}

	if err := r.readHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	r.rowNum++
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for i, h := range header {
		r.colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for _, required := range []string{"visit_id", "arrival_time"} {
		if _, ok := r.colIdx[required]; !ok {
			return fmt.Errorf("header missing required column %q", required)
		}
	}
	return nil
}

// Next returns the next raw record, or io.EOF when the extract is
// exhausted. Empty rows are skipped; a data row with a blank visit_id
// is a structural contract violation and returns an error.
func (r *Reader) Next() (visit.RawVisitRecord, error) {
	for {
		row, err := r.csv.Read()
		if err != nil {
			return visit.RawVisitRecord{}, err
		}
		r.rowNum++

		// Skip empty rows
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		rec := visit.RawVisitRecord{
			VisitID:         r.val(row, "visit_id"),
			PatientID:       r.val(row, "patient_id"),
			ArrivalTime:     r.val(row, "arrival_time"),
			TriageTime:      r.val(row, "triage_time"),
			DoctorTime:      r.val(row, "doctor_assignment_time"),
			DischargeTime:   r.val(row, "discharge_time"),
			Complaint:       r.val(row, "complaint"),
			Severity:        r.val(row, "severity"),
			Age:             r.val(row, "age"),
			InsuranceStatus: r.val(row, "insurance_status"),
			DoctorID:        r.val(row, "doctor_id"),
			NurseID:         r.val(row, "nurse_id"),
		}

		if rec.VisitID == "" {
			return visit.RawVisitRecord{}, fmt.Errorf("row %d: missing visit_id", r.rowNum)
		}
		return rec, nil
	}
}

// ReadAll drains the extract into memory. The pipeline's dedup pass
// needs the full set anyway, so the per-record streaming interface only
// matters for callers that filter first.
func (r *Reader) ReadAll() ([]visit.RawVisitRecord, error) {
	var records []visit.RawVisitRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// RowNum returns the current CSV row number (1-based).
func (r *Reader) RowNum() int64 {
	return r.rowNum
}

func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// val sanitizes to valid UTF-8 since some source extracts arrive in
// Windows-1252.
func (r *Reader) val(row []string, col string) string {
	if i, ok := r.colIdx[col]; ok && i < len(row) {
		return strings.ToValidUTF8(strings.TrimSpace(row[i]), "\uFFFD")
	}
	return ""
}

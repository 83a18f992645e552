// Package pgout loads the enriched analytics dataset into PostgreSQL,
// where it is served to reporting as a stable relation keyed by visit
// identifier.
package pgout

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"edvisits/visit"
)

//go:embed schema.sql
var schema string

// Loader owns the connection pool for analytics loads.
type Loader struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// Connect opens a pool against the given connection string and pings it.
func Connect(ctx context.Context, connStr string, maxConns int32, log *zap.Logger) (*Loader, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{pool: pool, log: log}, nil
}

// InitSchema creates the analytics tables if they do not exist.
func (l *Loader) InitSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, schema)
	return err
}

// Close releases the pool.
func (l *Loader) Close() {
	l.pool.Close()
}

var visitColumns = []string{
	"visit_id", "patient_id", "patient_id_quality",
	"arrival_time", "triage_time", "doctor_assignment_time", "discharge_time",
	"complaint", "severity", "age", "age_quality", "insurance_status",
	"doctor_id", "nurse_id",
	"arrival_to_triage_min", "triage_to_doctor_min", "doctor_to_discharge_min", "total_min",
	"arrival_hour", "arrival_day", "arrival_month", "arrival_date",
	"visit_status", "revenue_lost", "age_group", "run_id",
}

// LoadRun writes one pipeline run atomically: the ingest_runs audit row
// and the visit rows via COPY, in a single transaction.
func (l *Loader) LoadRun(ctx context.Context, sourceFile string, records []visit.AnalyticsVisitRecord, stats visit.Stats) error {
	start := time.Now()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ingest_runs (
			run_id, source_file, input_count, duplicates_dropped, output_count,
			unparseable_timestamps, absent_timestamps, unknown_complaints,
			missing_ages, invalid_ages, missing_patient_ids
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		stats.RunID.String(), sourceFile, stats.Input, stats.DuplicatesDropped, stats.Output,
		stats.UnparseableTimestamps, stats.AbsentTimestamps, stats.UnknownComplaints,
		stats.MissingAges, stats.InvalidAges, stats.MissingPatientIDs,
	)
	if err != nil {
		return fmt.Errorf("insert ingest run: %w", err)
	}

	runID := stats.RunID.String()
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"visits"}, visitColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{
				r.VisitID, r.PatientID, string(r.PatientIDQuality),
				optTimestamp(r.Arrival), optTimestamp(r.Triage), optTimestamp(r.Doctor), optTimestamp(r.Discharge),
				r.Complaint, r.Severity, optAge(r.Age), string(r.AgeQuality), r.InsuranceStatus,
				optText(r.DoctorID), optText(r.NurseID),
				optInt8(r.ArrivalToTriageMin), optInt8(r.TriageToDoctorMin), optInt8(r.DoctorToDischargeMin), optInt8(r.TotalMin),
				r.ArrivalHour, r.ArrivalDay, r.ArrivalMonth, optDate(r.ArrivalDate),
				string(r.VisitStatus), r.RevenueLost, string(r.AgeGroup), runID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy visits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	l.log.Info("analytics load complete",
		zap.String("run_id", runID),
		zap.String("source_file", sourceFile),
		zap.Int64("rows", copied),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// pgtype helpers

func optTimestamp(t *time.Time) pgtype.Timestamp {
	if t == nil {
		return pgtype.Timestamp{Valid: false}
	}
	return pgtype.Timestamp{Time: *t, Valid: true}
}

func optInt8(n *int64) pgtype.Int8 {
	if n == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: *n, Valid: true}
}

func optAge(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

func optText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func optDate(s string) pgtype.Date {
	if s == "" {
		return pgtype.Date{Valid: false}
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: d, Valid: true}
}

package visit

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stats is the aggregate audit summary of one pipeline run. Data-level
// problems never abort the batch; they land here as counters instead.
type Stats struct {
	RunID             uuid.UUID
	Input             int
	DuplicatesDropped int
	Output            int

	UnparseableTimestamps int64
	AbsentTimestamps      int64
	UnknownComplaints     int64
	MissingAges           int64
	InvalidAges           int64
	MissingPatientIDs     int64

	Elapsed time.Duration
}

// Pipeline runs the full standardization and enrichment transform over a
// bounded input set: one set-wide deduplication pass, then a parallel
// per-record standardize+derive map. The per-record stages share no
// mutable state and have no ordering dependency, so they fan out across
// a bounded worker count; output order matches survivor input order.
type Pipeline struct {
	std     *Standardizer
	der     *Deriver
	workers int
	log     *zap.Logger
}

// NewPipeline wires a pipeline. workers <= 0 means one worker per CPU;
// a nil logger is replaced with a no-op logger.
func NewPipeline(std *Standardizer, der *Deriver, workers int, log *zap.Logger) *Pipeline {
	if std == nil {
		std = NewStandardizer(nil, nil, nil)
	}
	if der == nil {
		der = NewDeriver(DefaultDeriveRules())
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{std: std, der: der, workers: workers, log: log}
}

// Run transforms raw records into analytics records. Deduplication runs
// first and completely, since it is the only stage that needs every
// record of a key group visible at once; the remaining per-record stages
// fan out in parallel. Run is total over the declared input shape: no
// data condition aborts it.
func (p *Pipeline) Run(raws []RawVisitRecord) ([]AnalyticsVisitRecord, Stats) {
	start := time.Now()
	stats := Stats{RunID: uuid.New(), Input: len(raws)}

	survivors, dropped := Deduplicate(raws)
	stats.DuplicatesDropped = dropped

	p.log.Info("dedup pass complete",
		zap.String("run_id", stats.RunID.String()),
		zap.Int("input", stats.Input),
		zap.Int("duplicates_dropped", dropped),
		zap.Int("survivors", len(survivors)))

	out := make([]AnalyticsVisitRecord, len(survivors))

	var (
		unparseable, absent, unknown atomic.Int64
		missingAge, invalidAge       atomic.Int64
		missingPatient               atomic.Int64
		next                         atomic.Int64
		wg                           sync.WaitGroup
	)

	workers := p.workers
	if workers > len(survivors) {
		workers = len(survivors)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(survivors) {
					return
				}
				clean, note := p.std.Standardize(survivors[i])
				out[i] = p.der.Derive(clean)

				unparseable.Add(int64(note.UnparseableTimestamps))
				absent.Add(int64(note.AbsentTimestamps))
				if note.UnknownComplaint {
					unknown.Add(1)
				}
				switch clean.AgeQuality {
				case AgeMissing:
					missingAge.Add(1)
				case AgeInvalid:
					invalidAge.Add(1)
				}
				if clean.PatientIDQuality == PatientIDMissing {
					missingPatient.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	stats.Output = len(out)
	stats.UnparseableTimestamps = unparseable.Load()
	stats.AbsentTimestamps = absent.Load()
	stats.UnknownComplaints = unknown.Load()
	stats.MissingAges = missingAge.Load()
	stats.InvalidAges = invalidAge.Load()
	stats.MissingPatientIDs = missingPatient.Load()
	stats.Elapsed = time.Since(start)

	p.log.Info("pipeline run complete",
		zap.String("run_id", stats.RunID.String()),
		zap.Int("output", stats.Output),
		zap.Int64("unparseable_timestamps", stats.UnparseableTimestamps),
		zap.Int64("unknown_complaints", stats.UnknownComplaints),
		zap.Int64("invalid_ages", stats.InvalidAges),
		zap.Duration("elapsed", stats.Elapsed))

	return out, stats
}

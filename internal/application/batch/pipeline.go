package batch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

// PrepareFunc runs once, after duplicates are resolved and before the first
// create. It returns the create function to use for this run, typically one
// closed over a snapshot it loaded.
type PrepareFunc[T domain.Record] func(ctx context.Context, creatable []T) (CreateFunc[T], error)

// Pipeline ingests one uploaded file of a single entity type.
type Pipeline[T domain.Record] struct {
	Entity    domain.Entity
	Schema    Schema[T]
	Directory domain.Directory
	Create    CreateFunc[T]
	Prepare   PrepareFunc[T]
	Runs      RunRecorder
	MaxErrors int
	Logger    *logrus.Entry
}

type Result struct {
	BatchID  string                 `json:"batch_id"`
	Summary  domain.Summary         `json:"summary"`
	Outcomes []domain.RecordOutcome `json:"outcomes"`
}

// Run parses, validates, resolves duplicates and creates the new records of
// upload. Parse and directory failures abort the run before any create. A
// file with no valid rows returns its summary together with
// ErrNoValidRecords.
func (p Pipeline[T]) Run(ctx context.Context, upload domain.Upload) (Result, error) {
	// A started batch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	startedAt := time.Now().UTC()
	batchID := uuid.NewString()
	log := p.logger().WithFields(logrus.Fields{
		"batch_id": batchID,
		"entity":   p.Entity,
		"file":     upload.FileName,
	})

	result, err := p.run(ctx, upload, batchID, log)
	observeRun(p.Entity, result.Summary, err)
	p.record(ctx, upload, result, err, startedAt, log)
	return result, err
}

func (p Pipeline[T]) run(ctx context.Context, upload domain.Upload, batchID string, log *logrus.Entry) (Result, error) {
	result := Result{BatchID: batchID}

	rows, err := Parse(upload, p.Schema.Columns)
	if err != nil {
		log.WithError(err).Warn("batch file rejected")
		return result, err
	}

	valid, rejected := validateRows(rows, p.Schema.Validate)
	if len(valid) == 0 {
		result.Summary = Aggregate(p.Entity, len(rows), nil, rejected, p.MaxErrors)
		observeSummary(result.Summary)
		log.WithField("rejected", len(rejected)).Warn("batch has no valid rows")
		return result, domain.ErrNoValidRecords
	}

	index, err := p.Directory.LookupExisting(ctx, p.Entity, uniqueKeys(valid))
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
		log.WithError(err).Error("directory snapshot failed")
		return result, err
	}

	resolution := Resolve(valid, index)

	create := p.Create
	if p.Prepare != nil && len(resolution.Creatable) > 0 {
		create, err = p.Prepare(ctx, resolution.Creatable)
		if err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
			log.WithError(err).Error("prepare batch failed")
			return result, err
		}
	}
	if create == nil && len(resolution.Creatable) > 0 {
		return result, fmt.Errorf("no create function configured for %s", p.Entity)
	}

	created := Execute(ctx, resolution.Creatable, create, log)

	outcomes := make([]domain.RecordOutcome, 0, len(created)+len(resolution.Duplicates))
	outcomes = append(outcomes, created...)
	outcomes = append(outcomes, resolution.Duplicates...)
	sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].Row < outcomes[j].Row })

	result.Outcomes = outcomes
	result.Summary = Aggregate(p.Entity, len(rows), outcomes, rejected, p.MaxErrors)
	observeSummary(result.Summary)

	log.WithFields(logrus.Fields{
		"created":  result.Summary.CreatedCount,
		"skipped":  result.Summary.SkippedCount,
		"failed":   result.Summary.FailedCount,
		"rejected": result.Summary.RejectedCount,
	}).Info("batch finished")

	return result, nil
}

// record writes the audit entry of a finished run. A failure to write it is
// logged and does not change the batch result.
func (p Pipeline[T]) record(ctx context.Context, upload domain.Upload, result Result, runErr error, startedAt time.Time, log *logrus.Entry) {
	if p.Runs == nil {
		return
	}

	run := domain.Run{
		ID:         result.BatchID,
		Entity:     p.Entity,
		FileName:   upload.FileName,
		Checksum:   Checksum(upload.Data),
		Status:     domain.StatusOf(result.Summary, runErr),
		Summary:    result.Summary,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}
	if runErr != nil {
		run.ErrorMessage = truncateReason(runErr.Error())
	}

	if err := p.Runs.RecordRun(ctx, run); err != nil {
		log.WithError(err).Warn("record batch run failed")
	}
}

func (p Pipeline[T]) logger() *logrus.Entry {
	if p.Logger != nil {
		return p.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	"github.com/mohammadpnp/rendimientos-admin/internal/infrastructure/db/models"
)

type BatchRunRepository struct {
	db *gorm.DB
}

func NewBatchRunRepository(db *gorm.DB) *BatchRunRepository {
	return &BatchRunRepository{db: db}
}

func (r *BatchRunRepository) RecordRun(ctx context.Context, run domain.Run) error {
	row := models.BatchRun{
		ID:            run.ID,
		Entity:        string(run.Entity),
		FileName:      run.FileName,
		Checksum:      run.Checksum,
		Status:        run.Status,
		TotalRows:     run.Summary.TotalRows,
		CreatedCount:  run.Summary.CreatedCount,
		SkippedCount:  run.Summary.SkippedCount,
		FailedCount:   run.Summary.FailedCount,
		RejectedCount: run.Summary.RejectedCount,
		OmittedErrors: run.Summary.OmittedErrors,
		Errors:        make([]models.RowError, 0, len(run.Summary.Errors)),
		StartedAt:     run.StartedAt,
		FinishedAt:    run.FinishedAt,
	}
	for _, e := range run.Summary.Errors {
		row.Errors = append(row.Errors, models.RowError{Row: e.Row, Kind: string(e.Kind), Message: e.Message})
	}
	if run.ErrorMessage != "" {
		msg := run.ErrorMessage
		row.ErrorMessage = &msg
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create batch run: %w", err)
	}
	return nil
}

func (r *BatchRunRepository) GetRun(ctx context.Context, id string) (domain.Run, error) {
	var row models.BatchRun
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Run{}, domain.ErrRunNotFound
		}
		return domain.Run{}, fmt.Errorf("get batch run: %w", err)
	}
	return toRun(row), nil
}

// ListRuns returns the most recent runs first, optionally for one entity.
func (r *BatchRunRepository) ListRuns(ctx context.Context, entity domain.Entity, limit int) ([]domain.Run, error) {
	query := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if entity != "" {
		query = query.Where("entity = ?", string(entity))
	}

	var rows []models.BatchRun
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}

	runs := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, toRun(row))
	}
	return runs, nil
}

func toRun(row models.BatchRun) domain.Run {
	errs := make([]domain.RowError, 0, len(row.Errors))
	for _, e := range row.Errors {
		errs = append(errs, domain.RowError{Row: e.Row, Kind: domain.ErrorKind(e.Kind), Message: e.Message})
	}

	run := domain.Run{
		ID:       row.ID,
		Entity:   domain.Entity(row.Entity),
		FileName: row.FileName,
		Checksum: row.Checksum,
		Status:   row.Status,
		Summary: domain.Summary{
			Entity:        domain.Entity(row.Entity),
			TotalRows:     row.TotalRows,
			CreatedCount:  row.CreatedCount,
			SkippedCount:  row.SkippedCount,
			FailedCount:   row.FailedCount,
			RejectedCount: row.RejectedCount,
			Errors:        errs,
			OmittedErrors: row.OmittedErrors,
		},
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
	}
	if row.ErrorMessage != nil {
		run.ErrorMessage = *row.ErrorMessage
	}
	return run
}

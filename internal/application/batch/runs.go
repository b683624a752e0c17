package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

var (
	ErrInvalidRunID  = errors.New("invalid batch run id")
	ErrInvalidEntity = errors.New("invalid entity")
	ErrRunNotFound   = errors.New("batch run not found")
	ErrQueryRuns     = errors.New("failed to query batch runs")
)

type RunReader interface {
	GetRun(ctx context.Context, id string) (domain.Run, error)
	ListRuns(ctx context.Context, entity domain.Entity, limit int) ([]domain.Run, error)
}

type RunOutput struct {
	ID           string         `json:"id"`
	Entity       domain.Entity  `json:"entity"`
	FileName     string         `json:"file_name"`
	Checksum     string         `json:"checksum"`
	Status       string         `json:"status"`
	Summary      domain.Summary `json:"summary"`
	ErrorMessage string         `json:"error_message,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
}

func toRunOutput(run domain.Run) RunOutput {
	return RunOutput{
		ID:           run.ID,
		Entity:       run.Entity,
		FileName:     run.FileName,
		Checksum:     run.Checksum,
		Status:       run.Status,
		Summary:      run.Summary,
		ErrorMessage: run.ErrorMessage,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
}

type GetRunInput struct {
	ID string
}

type GetRun interface {
	Execute(ctx context.Context, in GetRunInput) (RunOutput, error)
}

type getRun struct {
	repo RunReader
}

func NewGetRun(repo RunReader) GetRun {
	return &getRun{repo: repo}
}

func (uc *getRun) Execute(ctx context.Context, in GetRunInput) (RunOutput, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return RunOutput{}, ErrInvalidRunID
	}

	run, err := uc.repo.GetRun(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			return RunOutput{}, ErrRunNotFound
		}
		return RunOutput{}, fmt.Errorf("%w: %v", ErrQueryRuns, err)
	}
	return toRunOutput(run), nil
}

type ListRunsInput struct {
	Entity string
	Limit  int
}

type ListRuns interface {
	Execute(ctx context.Context, in ListRunsInput) ([]RunOutput, error)
}

type listRuns struct {
	repo RunReader
}

func NewListRuns(repo RunReader) ListRuns {
	return &listRuns{repo: repo}
}

func (uc *listRuns) Execute(ctx context.Context, in ListRunsInput) ([]RunOutput, error) {
	entity := domain.Entity(in.Entity)
	switch entity {
	case "", domain.EntityUsers, domain.EntityContracts, domain.EntityYields:
	default:
		return nil, ErrInvalidEntity
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs, err := uc.repo.ListRuns(ctx, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryRuns, err)
	}

	out := make([]RunOutput, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunOutput(run))
	}
	return out, nil
}

package batch

import (
	"sort"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

const DefaultMaxReportedErrors = 20

const duplicateInBatch = "duplicate within file"
const duplicateExisting = "already exists"

// Aggregate folds outcomes and rejected rows into a summary. Counts always
// cover every row; only the error list is capped at maxErrors.
func Aggregate(entity domain.Entity, totalRows int, outcomes []domain.RecordOutcome, rejected []Rejection, maxErrors int) domain.Summary {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxReportedErrors
	}

	summary := domain.Summary{
		Entity:        entity,
		TotalRows:     totalRows,
		RejectedCount: len(rejected),
	}

	var errs []domain.RowError
	for _, r := range rejected {
		errs = append(errs, domain.RowError{Row: r.Row, Kind: domain.ErrorKindValidation, Message: r.Violations.Error()})
	}

	for _, o := range outcomes {
		switch o.Kind {
		case domain.OutcomeCreated:
			summary.CreatedCount++
		case domain.OutcomeSkippedDuplicate:
			summary.SkippedCount++
			msg := duplicateExisting
			if o.InBatch {
				msg = duplicateInBatch
			}
			errs = append(errs, domain.RowError{Row: o.Row, Kind: domain.ErrorKindDuplicate, Message: msg})
		case domain.OutcomeFailed:
			summary.FailedCount++
			errs = append(errs, domain.RowError{Row: o.Row, Kind: domain.ErrorKindCreation, Message: o.Reason})
		}
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })

	if len(errs) > maxErrors {
		summary.OmittedErrors = len(errs) - maxErrors
		errs = errs[:maxErrors]
	}
	summary.Errors = errs
	if summary.Errors == nil {
		summary.Errors = []domain.RowError{}
	}
	return summary
}

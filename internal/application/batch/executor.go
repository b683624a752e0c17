package batch

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

// CreateFunc stores one record and returns the id it was assigned.
type CreateFunc[T domain.Record] func(ctx context.Context, record T) (string, error)

// Execute creates records one at a time in input order. A failed create is
// recorded against its row and the loop moves on; it never stops early.
func Execute[T domain.Record](ctx context.Context, records []T, create CreateFunc[T], logger *logrus.Entry) []domain.RecordOutcome {
	outcomes := make([]domain.RecordOutcome, 0, len(records))
	for _, record := range records {
		row := record.RowNumber()

		id, err := create(ctx, record)
		if err != nil {
			reason := truncateReason(err.Error())
			if logger != nil {
				logger.WithField("row", row).WithError(err).Warn("create record failed")
			}
			outcomes = append(outcomes, domain.Failed(row, reason))
			continue
		}
		outcomes = append(outcomes, domain.Created(row, id))
	}
	return outcomes
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(reason[cut]) {
		cut--
	}
	return reason[:cut]
}

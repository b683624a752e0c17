package batch

import "time"

// Run is the audit entry written once a batch finishes, successfully or not.
type Run struct {
	ID           string
	Entity       Entity
	FileName     string
	Checksum     string
	Status       string
	Summary      Summary
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

const (
	RunStatusSucceeded = "succeeded"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

// StatusOf classifies a finished batch from its summary and fatal error.
func StatusOf(summary Summary, err error) string {
	switch {
	case err != nil:
		return RunStatusFailed
	case summary.FailedCount > 0 || summary.RejectedCount > 0:
		return RunStatusPartial
	default:
		return RunStatusSucceeded
	}
}

package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse                = errors.New("invalid batch file")
	ErrNoValidRecords       = errors.New("no valid records in batch")
	ErrDirectoryUnavailable = errors.New("directory store unavailable")
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrRunNotFound          = errors.New("batch run not found")
)

// ParseError aborts a batch before any row is evaluated.
type ParseError struct {
	Reason         string
	MissingColumns []string
	Cause          error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if len(e.MissingColumns) > 0 {
		msg = fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Cause}
}

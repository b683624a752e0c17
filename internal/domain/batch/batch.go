package batch

import (
	"context"
	"fmt"
	"strings"
)

type Entity string

const (
	EntityUsers     Entity = "users"
	EntityContracts Entity = "contracts"
	EntityYields    Entity = "yields"
)

// Record is implemented by every validated record flowing through a batch.
type Record interface {
	RowNumber() int
	UniqueKey() string
}

// RawRow is one data row of an uploaded file. Number is the 1-based row of
// the source sheet, so the first data row is 2.
type RawRow struct {
	Number int
	Fields map[string]string
}

func (r RawRow) Get(column string) string {
	return r.Fields[column]
}

func (r RawRow) Blank() bool {
	for _, value := range r.Fields {
		if value != "" {
			return false
		}
	}
	return true
}

type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v FieldViolation) String() string {
	return v.Field + ": " + v.Reason
}

type Violations []FieldViolation

func (vs Violations) Error() string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// DirectoryIndex maps a unique key to the id of the entity already stored
// under it.
type DirectoryIndex map[string]string

type Directory interface {
	LookupExisting(ctx context.Context, entity Entity, keys []string) (DirectoryIndex, error)
}

type Upload struct {
	FileName string
	Data     []byte
}

type OutcomeKind string

const (
	OutcomeCreated          OutcomeKind = "created"
	OutcomeSkippedDuplicate OutcomeKind = "skipped_duplicate"
	OutcomeFailed           OutcomeKind = "failed"
)

type RecordOutcome struct {
	Row     int         `json:"row"`
	Kind    OutcomeKind `json:"kind"`
	ID      string      `json:"id,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	InBatch bool        `json:"in_batch,omitempty"`
}

func Created(row int, id string) RecordOutcome {
	return RecordOutcome{Row: row, Kind: OutcomeCreated, ID: id}
}

func SkippedDuplicate(row int, inBatch bool) RecordOutcome {
	return RecordOutcome{Row: row, Kind: OutcomeSkippedDuplicate, InBatch: inBatch}
}

func Failed(row int, reason string) RecordOutcome {
	return RecordOutcome{Row: row, Kind: OutcomeFailed, Reason: reason}
}

type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindDuplicate  ErrorKind = "duplicate"
	ErrorKindCreation   ErrorKind = "creation"
)

type RowError struct {
	Row     int       `json:"row"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e RowError) String() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

type Summary struct {
	Entity        Entity     `json:"entity"`
	TotalRows     int        `json:"total_rows"`
	CreatedCount  int        `json:"created_count"`
	SkippedCount  int        `json:"skipped_count"`
	FailedCount   int        `json:"failed_count"`
	RejectedCount int        `json:"rejected_count"`
	Errors        []RowError `json:"errors"`
	OmittedErrors int        `json:"omitted_errors,omitempty"`
}

// Lines renders the error list for display, ending with the count of
// errors that were left out.
func (s Summary) Lines() []string {
	lines := make([]string, 0, len(s.Errors)+1)
	for _, e := range s.Errors {
		lines = append(lines, e.String())
	}
	if s.OmittedErrors > 0 {
		lines = append(lines, fmt.Sprintf("...and %d more", s.OmittedErrors))
	}
	return lines
}

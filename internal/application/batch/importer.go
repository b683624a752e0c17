package batch

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	"github.com/mohammadpnp/rendimientos-admin/internal/domain/user"
)

type Input struct {
	FileName string
	Data     []byte
}

// Importer runs one uploaded file through the pipeline of its entity.
type Importer interface {
	Execute(ctx context.Context, in Input) (Result, error)
}

type RunRecorder interface {
	RecordRun(ctx context.Context, run domain.Run) error
}

// Options are shared by every entity importer.
type Options struct {
	MaxErrors int
	Runs      RunRecorder
	Logger    *logrus.Entry
}

type pipelineImporter[T domain.Record] struct {
	pipeline Pipeline[T]
}

// NewImporter adapts a pipeline to the Importer use case shape.
func NewImporter[T domain.Record](p Pipeline[T]) Importer {
	return &pipelineImporter[T]{pipeline: p}
}

func (uc *pipelineImporter[T]) Execute(ctx context.Context, in Input) (Result, error) {
	return uc.pipeline.Run(ctx, domain.Upload{FileName: in.FileName, Data: in.Data})
}

// Checksum fingerprints uploaded bytes for the run audit trail.
func Checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// LookupOwners snapshots the users referenced by records, keyed by
// normalized email.
func LookupOwners[T domain.Record](ctx context.Context, dir domain.Directory, records []T, email func(T) string) (domain.DirectoryIndex, error) {
	emails := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		key := user.NormalizeEmail(email(record))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		emails = append(emails, key)
	}
	return dir.LookupExisting(ctx, domain.EntityUsers, emails)
}

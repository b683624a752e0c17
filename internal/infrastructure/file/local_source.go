package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

var ErrTooLarge = errors.New("upload exceeds size limit")

// LocalSource reads batch files from disk. Relative paths resolve against
// BaseDir.
type LocalSource struct {
	BaseDir  string
	MaxBytes int64
}

func NewLocalSource(baseDir string, maxBytes int64) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir, MaxBytes: maxBytes}
}

func (s *LocalSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := sourcePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.BaseDir, sourcePath)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return file, nil
}

// Load reads a whole batch file into memory.
func (s *LocalSource) Load(ctx context.Context, sourcePath string) (domain.Upload, error) {
	reader, err := s.Open(ctx, sourcePath)
	if err != nil {
		return domain.Upload{}, err
	}
	defer reader.Close()

	if s.MaxBytes > 0 {
		reader = struct {
			io.Reader
			io.Closer
		}{io.LimitReader(reader, s.MaxBytes+1), reader}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read file %s: %w", sourcePath, err)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return domain.Upload{}, fmt.Errorf("%w: %s", ErrTooLarge, sourcePath)
	}

	return domain.Upload{FileName: filepath.Base(sourcePath), Data: data}, nil
}

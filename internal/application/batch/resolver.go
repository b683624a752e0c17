package batch

import domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"

type Resolution[T domain.Record] struct {
	Creatable  []T
	Duplicates []domain.RecordOutcome
}

// Resolve splits records into those that can be created and those whose key
// already exists in the index or appeared earlier in the same batch. The
// index is only read.
func Resolve[T domain.Record](records []T, index domain.DirectoryIndex) Resolution[T] {
	res := Resolution[T]{Creatable: make([]T, 0, len(records))}
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		key := record.UniqueKey()
		if _, exists := index[key]; exists {
			res.Duplicates = append(res.Duplicates, domain.SkippedDuplicate(record.RowNumber(), false))
			continue
		}
		if _, dup := seen[key]; dup {
			res.Duplicates = append(res.Duplicates, domain.SkippedDuplicate(record.RowNumber(), true))
			continue
		}
		seen[key] = struct{}{}
		res.Creatable = append(res.Creatable, record)
	}
	return res
}

func uniqueKeys[T domain.Record](records []T) []string {
	keys := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		key := record.UniqueKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

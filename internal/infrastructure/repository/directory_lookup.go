package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
)

var lookupQueries = map[domain.Entity]string{
	domain.EntityUsers:     `SELECT email, id::text FROM users WHERE email = ANY($1)`,
	domain.EntityContracts: `SELECT dedupe_key, id::text FROM contracts WHERE dedupe_key = ANY($1)`,
	domain.EntityYields:    `SELECT dedupe_key, id::text FROM yields WHERE dedupe_key = ANY($1)`,
}

// DirectoryLookup answers existence checks for a whole batch with one query
// per entity.
type DirectoryLookup struct {
	pool *pgxpool.Pool
}

func NewDirectoryLookup(pool *pgxpool.Pool) *DirectoryLookup {
	return &DirectoryLookup{pool: pool}
}

func (r *DirectoryLookup) LookupExisting(ctx context.Context, entity domain.Entity, keys []string) (domain.DirectoryIndex, error) {
	query, ok := lookupQueries[entity]
	if !ok {
		return nil, fmt.Errorf("lookup existing: unknown entity %q", entity)
	}
	if len(keys) == 0 {
		return domain.DirectoryIndex{}, nil
	}

	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("lookup existing %s: %w", entity, err)
	}
	defer rows.Close()

	return collectIndex(rows)
}

func collectIndex(rows pgx.Rows) (domain.DirectoryIndex, error) {
	index := domain.DirectoryIndex{}
	for rows.Next() {
		var key, id string
		if err := rows.Scan(&key, &id); err != nil {
			return nil, err
		}
		index[key] = id
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return index, nil
}

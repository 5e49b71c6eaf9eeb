package sequences

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Next(ctx context.Context, scope string) (int64, error) {
	query :=
		`INSERT INTO id_sequences (scope, last_value)
		 VALUES ($1, 1)
		 ON CONFLICT (scope) DO UPDATE SET last_value = id_sequences.last_value + 1
		 RETURNING last_value`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, scope).Scan(&n); err != nil {
		return 0, dbx.MapError(err)
	}
	return n, nil
}

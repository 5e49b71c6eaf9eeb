package categories

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `INSERT INTO categories (id, name) VALUES ($1, $2) RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, c.ID, c.Name).Scan(&c.CreatedAt); err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	query := `SELECT id, name, created_at FROM categories WHERE id = $1`

	c := &models.Category{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, dbx.MapError(err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Category, error) {
	query :=
		`SELECT id, name, created_at
		 FROM categories
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		 ORDER BY name
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, opts.Query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Category) error {
	query := `UPDATE categories SET name = $2 WHERE id = $1 RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, c.ID, c.Name).Scan(&c.CreatedAt); err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.RequireAffected(res)
}

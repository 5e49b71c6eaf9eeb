package members

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/google/uuid"
)

const memberColumns = `id, name, membership_code, email, is_active, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query :=
		`INSERT INTO members (id, name, membership_code, email, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.Name, m.MembershipCode, m.Email, m.IsActive).Scan(&m.CreatedAt)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m := &models.Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.MembershipCode, &m.Email, &m.IsActive, &m.CreatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return m, nil
}

func (r *PostgresRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Member, error) {
	query :=
		`SELECT ` + memberColumns + `
		 FROM members
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR membership_code ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, opts.Query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.Name, &m.MembershipCode, &m.Email, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, m *models.Member) error {
	query :=
		`UPDATE members
		 SET name = $2, membership_code = $3, email = $4, is_active = $5
		 WHERE id = $1
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.Name, m.MembershipCode, m.Email, m.IsActive).Scan(&m.CreatedAt)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.RequireAffected(res)
}

package profiles

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

func (r *PostgresRepository) CreateMember(ctx context.Context, p *models.MemberProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query :=
		`INSERT INTO member_profiles (id, user_id, membership_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.MembershipID).Scan(&p.CreatedAt); err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetMemberByUser(ctx context.Context, userID string) (*models.MemberProfile, error) {
	query :=
		`SELECT id, user_id, membership_id, created_at
		 FROM member_profiles
		 WHERE user_id = $1`

	p := &models.MemberProfile{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &p.MembershipID, &p.CreatedAt); err != nil {
		return nil, dbx.MapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) CreateManagement(ctx context.Context, p *models.ManagementProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query :=
		`INSERT INTO management_profiles (id, user_id, role, management_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	if err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Role, p.ManagementID).Scan(&p.CreatedAt); err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetManagement(ctx context.Context, userID string, role models.Role) (*models.ManagementProfile, error) {
	query :=
		`SELECT id, user_id, role, management_id, created_at
		 FROM management_profiles
		 WHERE user_id = $1 AND role = $2`

	p := &models.ManagementProfile{}
	err := r.db.QueryRowContext(ctx, query, userID, role).Scan(&p.ID, &p.UserID, &p.Role, &p.ManagementID, &p.CreatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) ListManagementByUser(ctx context.Context, userID string) ([]*models.ManagementProfile, error) {
	query :=
		`SELECT id, user_id, role, management_id, created_at
		 FROM management_profiles
		 WHERE user_id = $1
		 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.ManagementProfile
	for rows.Next() {
		p := &models.ManagementProfile{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Role, &p.ManagementID, &p.CreatedAt); err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/google/uuid"
)

const userColumns = `id, email, name, password_hash, salt, role, is_active, is_staff, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleMember
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query :=
		`INSERT INTO users (id, email, name, password_hash, salt, role, is_active, is_staff)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Salt, user.Role, user.IsActive, user.IsStaff,
	).Scan(&user.CreatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role models.Role, isStaff bool) error {
	query := `UPDATE users SET role = $2, is_staff = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, role, isStaff)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Salt, &u.Role, &u.IsActive, &u.IsStaff, &u.CreatedAt,
	)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return u, nil
}

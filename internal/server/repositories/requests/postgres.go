package requests

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/google/uuid"
)

const requestColumns = `id, user_id, requested_role, status, approved_by, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*models.ManagementRequest, error) {
	req := &models.ManagementRequest{}
	var approvedBy sql.NullString
	if err := s.Scan(&req.ID, &req.UserID, &req.RequestedRole, &req.Status, &approvedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	if approvedBy.Valid {
		req.ApprovedBy = &approvedBy.String
	}
	return req, nil
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.ManagementRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.StatusPending

	query :=
		`INSERT INTO management_requests (id, user_id, requested_role, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, req.ID, req.UserID, req.RequestedRole, req.Status).
		Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) HasPending(ctx context.Context, userID string) (bool, error) {
	query :=
		`SELECT EXISTS (
			SELECT 1 FROM management_requests WHERE user_id = $1 AND status = 'PENDING'
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, dbx.MapError(err)
	}
	return exists, nil
}

func (r *PostgresRepository) GetPendingForUpdate(ctx context.Context, id string) (*models.ManagementRequest, error) {
	query :=
		`SELECT ` + requestColumns + `
		 FROM management_requests
		 WHERE id = $1 AND status = 'PENDING'
		 FOR UPDATE`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return req, nil
}

func (r *PostgresRepository) Resolve(ctx context.Context, id string, status models.RequestStatus, actorID string) (*models.ManagementRequest, error) {
	query :=
		`UPDATE management_requests
		 SET status = $2, approved_by = $3, updated_at = now()
		 WHERE id = $1 AND status = 'PENDING'
		 RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, status, actorID))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return req, nil
}

func (r *PostgresRepository) List(ctx context.Context, status models.RequestStatus, limit, offset int) ([]*models.ManagementRequest, error) {
	query :=
		`SELECT ` + requestColumns + `
		 FROM management_requests
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.ManagementRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

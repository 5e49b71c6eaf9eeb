// Package users declares and implements persistence for user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDForUpdate locks the user row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role, isStaff bool) error
}

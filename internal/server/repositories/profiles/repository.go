// Package profiles persists member and management profiles.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	CreateMember(ctx context.Context, p *models.MemberProfile) error
	GetMemberByUser(ctx context.Context, userID string) (*models.MemberProfile, error)

	CreateManagement(ctx context.Context, p *models.ManagementProfile) error
	// GetManagement returns the (user, role) profile or common.ErrorNotFound.
	GetManagement(ctx context.Context, userID string, role models.Role) (*models.ManagementProfile, error)
	ListManagementByUser(ctx context.Context, userID string) ([]*models.ManagementProfile, error)
}

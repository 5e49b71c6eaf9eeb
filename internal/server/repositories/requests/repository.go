// Package requests persists management (role upgrade) requests.
package requests

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, req *models.ManagementRequest) error
	HasPending(ctx context.Context, userID string) (bool, error)
	// GetPendingForUpdate locks a request that is still pending. Resolved or
	// unknown requests yield common.ErrorNotFound.
	GetPendingForUpdate(ctx context.Context, id string) (*models.ManagementRequest, error)
	// Resolve moves a pending request to status and records the actor.
	Resolve(ctx context.Context, id string, status models.RequestStatus, actorID string) (*models.ManagementRequest, error)
	List(ctx context.Context, status models.RequestStatus, limit, offset int) ([]*models.ManagementRequest, error)
}

// Package members persists borrower identities used by circulation.
package members

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	List(ctx context.Context, opts models.ListOptions) ([]*models.Member, error)
	Update(ctx context.Context, m *models.Member) error
	Delete(ctx context.Context, id string) error
}

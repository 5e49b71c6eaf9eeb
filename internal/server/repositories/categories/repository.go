// Package categories persists book categories.
package categories

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context, opts models.ListOptions) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

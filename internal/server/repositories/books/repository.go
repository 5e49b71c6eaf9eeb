// Package books persists the catalog: titles, copy counters and embeddings.
package books

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Book) error
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)
	// GetForUpdate locks the book row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Book, error)
	List(ctx context.Context, opts models.ListOptions) ([]*models.Book, error)
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id string) error

	// AdjustAvailable adds delta to the available counter. The schema keeps
	// the counter within [0, total]; violations surface as common.ErrorValidation.
	AdjustAvailable(ctx context.Context, id string, delta int) error

	// ListEmbedded returns every book that has an embedding, in catalog order.
	ListEmbedded(ctx context.Context) ([]*models.Book, error)
	// ListWithoutEmbedding returns up to limit books still lacking a vector.
	ListWithoutEmbedding(ctx context.Context, limit int) ([]*models.Book, error)
	SetEmbedding(ctx context.Context, id string, v models.Vector) error
}

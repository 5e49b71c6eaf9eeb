// Package refreshtokens declares the repository contract for server-stored
// refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns the token's owner and expiry, or common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a token. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges tokens that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

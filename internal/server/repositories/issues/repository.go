// Package issues persists the circulation ledger.
package issues

import (
	"context"
	"time"

	"github.com/dmitrijs2005/libris/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, issue *models.BookIssue) error
	// GetForUpdate locks the issue row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.BookIssue, error)
	// MarkReturned closes an open loan. An already closed loan is reported
	// as common.ErrAlreadyReturned.
	MarkReturned(ctx context.Context, id string, returnDate time.Time, fine int64) (*models.BookIssue, error)
	// ListOverdue returns open loans due strictly before today, oldest first.
	ListOverdue(ctx context.Context, today time.Time) ([]*models.OverdueIssue, error)
	// IssuedBookIDs returns the distinct books ever lent to a member.
	IssuedBookIDs(ctx context.Context, memberID string) ([]string, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*models.BookIssue, error)
}

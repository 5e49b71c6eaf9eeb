package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/server/metrics"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/repositories/sequences"
)

// FormatIdentifier renders n as PREFIX-000042. Numbers wider than six digits
// are printed in full.
func FormatIdentifier(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// ManagementPrefix maps an elevated role to its identifier prefix.
func ManagementPrefix(role models.Role) (string, error) {
	switch role {
	case models.RoleAdmin:
		return common.AdminIDPrefix, nil
	case models.RoleLibrarian:
		return common.LibrarianIDPrefix, nil
	}
	return "", common.ErrInvalidRole
}

// NextMemberID allocates the next membership identifier. Call it with a
// transaction-bound repository so the counter row stays locked until the
// profile insert commits.
func NextMemberID(ctx context.Context, seq sequences.Repository) (string, error) {
	return nextIdentifier(ctx, seq, common.MemberIDPrefix)
}

// NextManagementID allocates the next ADM-/LIB- identifier for role. Each
// prefix has its own counter.
func NextManagementID(ctx context.Context, seq sequences.Repository, role models.Role) (string, error) {
	prefix, err := ManagementPrefix(role)
	if err != nil {
		return "", err
	}
	return nextIdentifier(ctx, seq, prefix)
}

func nextIdentifier(ctx context.Context, seq sequences.Repository, prefix string) (string, error) {
	n, err := seq.Next(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("error allocating %s identifier: %w", prefix, err)
	}
	metrics.IdentifiersAllocated.WithLabelValues(prefix).Inc()
	return FormatIdentifier(prefix, n), nil
}

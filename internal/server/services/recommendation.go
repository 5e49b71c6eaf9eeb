package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/recommend"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
)

// RecommendationService suggests books similar to what a member has borrowed.
type RecommendationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	defaultK    int
	dimension   int
}

func NewRecommendationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *RecommendationService {
	return &RecommendationService{
		db:          db,
		repomanager: m,
		defaultK:    cfg.Recommend.DefaultK,
		dimension:   cfg.Recommend.Dimension,
	}
}

// Recommend returns up to k books for memberID, best match first. The member's
// taste is the mean vector of the distinct books they have borrowed; books
// they already borrowed are never suggested. Without any usable vector the
// first k books of the catalog are returned instead. k <= 0 uses the
// configured default.
func (s *RecommendationService) Recommend(ctx context.Context, memberID string, k int) ([]*models.Book, error) {
	if k <= 0 {
		k = s.defaultK
	}

	if _, err := s.repomanager.Members(s.db).GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	issuedIDs, err := s.repomanager.Issues(s.db).IssuedBookIDs(ctx, memberID)
	if err != nil {
		return nil, err
	}
	issued := make(map[string]struct{}, len(issuedIDs))
	for _, id := range issuedIDs {
		issued[id] = struct{}{}
	}

	books := s.repomanager.Books(s.db)

	var embedded []*models.Book
	if len(issued) > 0 {
		embedded, err = books.ListEmbedded(ctx)
		if err != nil {
			return nil, err
		}
	}

	var (
		profile    [][]float32
		candidates []recommend.Candidate
		byID       = make(map[string]*models.Book, len(embedded))
	)
	for _, b := range embedded {
		if !s.usable(b.Embedding) {
			continue
		}
		if _, ok := issued[b.ID]; ok {
			profile = append(profile, b.Embedding)
			continue
		}
		candidates = append(candidates, recommend.Candidate{ID: b.ID, Vector: b.Embedding})
		byID[b.ID] = b
	}

	if len(profile) == 0 {
		return books.List(ctx, models.ListOptions{Limit: k})
	}

	ranked := recommend.Rank(recommend.Mean(profile), candidates, k)
	out := make([]*models.Book, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, byID[r.ID])
	}
	return out, nil
}

func (s *RecommendationService) usable(v models.Vector) bool {
	if len(v) == 0 {
		return false
	}
	return s.dimension <= 0 || v.Dim() == s.dimension
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/embedding"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
)

// RecordSource yields precomputed vectors keyed by ISBN.
type RecordSource interface {
	Records(ctx context.Context, key string, fn func(embedding.Record) error) error
}

// ImportResult counts what an import touched.
type ImportResult struct {
	Updated int
	Skipped int
}

// EmbeddingService fills in book vectors, either by calling an embedding
// provider or by importing an export file.
type EmbeddingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	batchSize   int
	dimension   int
}

func NewEmbeddingService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *EmbeddingService {
	batch := cfg.Embedding.BatchSize
	if batch <= 0 {
		batch = 32
	}
	return &EmbeddingService{
		db:          db,
		repomanager: m,
		log:         log,
		batchSize:   batch,
		dimension:   cfg.Recommend.Dimension,
	}
}

// GenerateMissing embeds every book that has no vector yet, one batch at a
// time, and returns how many books were updated.
func (s *EmbeddingService) GenerateMissing(ctx context.Context, embedder embedding.Embedder) (int, error) {
	books := s.repomanager.Books(s.db)
	total := 0

	for {
		batch, err := books.ListWithoutEmbedding(ctx, s.batchSize)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}

		texts := make([]string, len(batch))
		for i, b := range batch {
			texts[i] = b.EmbeddingText()
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("embedding batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return total, fmt.Errorf("embedder returned %d vectors for %d books", len(vectors), len(batch))
		}

		for i, b := range batch {
			v := models.Vector(vectors[i])
			if err := s.checkDimension(v); err != nil {
				// the provider is misconfigured; retrying would loop forever
				return total, fmt.Errorf("book %s: %w", b.ID, err)
			}
			if err := books.SetEmbedding(ctx, b.ID, v); err != nil {
				return total, err
			}
			total++
		}
		s.log.Info(ctx, "embedded batch", "books", len(batch), "total", total)
	}
}

// Import applies the vectors in object key to books matched by ISBN. Unknown
// ISBNs and vectors of the wrong dimension are skipped.
func (s *EmbeddingService) Import(ctx context.Context, src RecordSource, key string) (ImportResult, error) {
	books := s.repomanager.Books(s.db)
	var res ImportResult

	err := src.Records(ctx, key, func(r embedding.Record) error {
		v := models.Vector(r.Embedding)
		if err := s.checkDimension(v); err != nil {
			s.log.Warn(ctx, "skipping vector", "isbn", r.ISBN, "error", err)
			res.Skipped++
			return nil
		}

		b, err := books.GetByISBN(ctx, r.ISBN)
		if errors.Is(err, common.ErrorNotFound) {
			res.Skipped++
			return nil
		}
		if err != nil {
			return err
		}

		if err := books.SetEmbedding(ctx, b.ID, v); err != nil {
			return err
		}
		res.Updated++
		return nil
	})
	return res, err
}

func (s *EmbeddingService) checkDimension(v models.Vector) error {
	if v.Dim() == 0 {
		return fmt.Errorf("%w: empty vector", common.ErrorValidation)
	}
	if s.dimension > 0 && v.Dim() != s.dimension {
		return fmt.Errorf("%w: vector has %d dimensions, want %d", common.ErrorValidation, v.Dim(), s.dimension)
	}
	return nil
}

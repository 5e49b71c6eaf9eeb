package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// NormalizePage clamps list bounds to sane values.
func NormalizePage(opts models.ListOptions) models.ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = DefaultPageSize
	}
	if opts.Limit > MaxPageSize {
		opts.Limit = MaxPageSize
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}

// CatalogService manages categories, books and borrowers.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

// --- categories ---

func (s *CatalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.repomanager.Categories(s.db).Create(ctx, c)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.repomanager.Categories(s.db).GetByID(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context, opts models.ListOptions) ([]*models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx, NormalizePage(opts))
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *models.Category) error {
	return s.repomanager.Categories(s.db).Update(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.repomanager.Categories(s.db).Delete(ctx, id)
}

// --- books ---

// CreateBook adds a title. The available count must lie within
// [0, TotalCopies].
func (s *CatalogService) CreateBook(ctx context.Context, b *models.Book) error {
	if err := checkCopies(b.TotalCopies, b.AvailableCopies); err != nil {
		return err
	}
	return s.repomanager.Books(s.db).Create(ctx, b)
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	return s.repomanager.Books(s.db).GetByID(ctx, id)
}

func (s *CatalogService) ListBooks(ctx context.Context, opts models.ListOptions) ([]*models.Book, error) {
	return s.repomanager.Books(s.db).List(ctx, NormalizePage(opts))
}

// UpdateBook edits a title. Copies currently on loan are preserved: the
// available count is recomputed from the new total, and a total below the
// number on loan is rejected.
func (s *CatalogService) UpdateBook(ctx context.Context, b *models.Book) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		books := s.repomanager.Books(tx)

		cur, err := books.GetForUpdate(ctx, b.ID)
		if err != nil {
			return err
		}

		onLoan := cur.TotalCopies - cur.AvailableCopies
		b.AvailableCopies = b.TotalCopies - onLoan
		if b.AvailableCopies < 0 {
			return fmt.Errorf("%w: total_copies below %d copies on loan", common.ErrorValidation, onLoan)
		}
		return books.Update(ctx, b)
	})
}

func (s *CatalogService) DeleteBook(ctx context.Context, id string) error {
	return s.repomanager.Books(s.db).Delete(ctx, id)
}

// --- members ---

func (s *CatalogService) CreateMember(ctx context.Context, m *models.Member) error {
	return s.repomanager.Members(s.db).Create(ctx, m)
}

func (s *CatalogService) GetMember(ctx context.Context, id string) (*models.Member, error) {
	return s.repomanager.Members(s.db).GetByID(ctx, id)
}

func (s *CatalogService) ListMembers(ctx context.Context, opts models.ListOptions) ([]*models.Member, error) {
	return s.repomanager.Members(s.db).List(ctx, NormalizePage(opts))
}

func (s *CatalogService) UpdateMember(ctx context.Context, m *models.Member) error {
	return s.repomanager.Members(s.db).Update(ctx, m)
}

func (s *CatalogService) DeleteMember(ctx context.Context, id string) error {
	return s.repomanager.Members(s.db).Delete(ctx, id)
}

func checkCopies(total, available int) error {
	if total < 0 || available < 0 || available > total {
		return fmt.Errorf("%w: available_copies must be between 0 and total_copies", common.ErrorValidation)
	}
	return nil
}

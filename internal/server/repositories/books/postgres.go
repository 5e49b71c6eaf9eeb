package books

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/google/uuid"
)

const bookColumns = `id, title, author, isbn, category_id, total_copies, available_copies, embedding, created_at`

// catalogOrder is the stable order used by listings and the cold-start fallback.
const catalogOrder = `ORDER BY created_at DESC, id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*models.Book, error) {
	b := &models.Book{}
	var category sql.NullString
	err := s.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &category, &b.TotalCopies, &b.AvailableCopies, &b.Embedding, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		b.CategoryID = &category.String
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Book) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query :=
		`INSERT INTO books (id, title, author, isbn, category_id, total_copies, available_copies, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.Title, b.Author, b.ISBN, b.CategoryID, b.TotalCopies, b.AvailableCopies, b.Embedding,
	).Scan(&b.CreatedAt)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Book, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return b, nil
}

func (r *PostgresRepository) List(ctx context.Context, opts models.ListOptions) ([]*models.Book, error) {
	query :=
		`SELECT ` + bookColumns + `
		 FROM books
		 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%' OR isbn ILIKE '%' || $1 || '%')
		   AND ($2 = '' OR category_id::text = $2)
		 ` + catalogOrder + `
		 LIMIT $3 OFFSET $4`

	return r.query(ctx, query, opts.Query, opts.CategoryID, opts.Limit, opts.Offset)
}

func (r *PostgresRepository) Update(ctx context.Context, b *models.Book) error {
	query :=
		`UPDATE books
		 SET title = $2, author = $3, isbn = $4, category_id = $5, total_copies = $6, available_copies = $7
		 WHERE id = $1
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.Title, b.Author, b.ISBN, b.CategoryID, b.TotalCopies, b.AvailableCopies,
	).Scan(&b.CreatedAt)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) AdjustAvailable(ctx context.Context, id string, delta int) error {
	query := `UPDATE books SET available_copies = available_copies + $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) ListEmbedded(ctx context.Context) ([]*models.Book, error) {
	query :=
		`SELECT ` + bookColumns + `
		 FROM books
		 WHERE embedding IS NOT NULL
		 ` + catalogOrder

	return r.query(ctx, query)
}

func (r *PostgresRepository) ListWithoutEmbedding(ctx context.Context, limit int) ([]*models.Book, error) {
	query :=
		`SELECT ` + bookColumns + `
		 FROM books
		 WHERE embedding IS NULL
		 ` + catalogOrder + `
		 LIMIT $1`

	return r.query(ctx, query, limit)
}

func (r *PostgresRepository) SetEmbedding(ctx context.Context, id string, v models.Vector) error {
	res, err := r.db.ExecContext(ctx, `UPDATE books SET embedding = $2 WHERE id = $1`, id, v)
	if err != nil {
		return dbx.MapError(err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

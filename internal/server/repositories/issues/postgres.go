package issues

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/google/uuid"
)

const issueColumns = `id, book_id, member_id, issue_date, due_date, return_date, fine_amount`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(s scanner, extra ...any) (*models.BookIssue, error) {
	i := &models.BookIssue{}
	var returned sql.NullTime
	dest := append([]any{&i.ID, &i.BookID, &i.MemberID, &i.IssueDate, &i.DueDate, &returned, &i.FineAmount}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time
		i.ReturnDate = &t
	}
	return i, nil
}

func (r *PostgresRepository) Create(ctx context.Context, issue *models.BookIssue) error {
	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	query :=
		`INSERT INTO book_issues (id, book_id, member_id, issue_date, due_date, fine_amount)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		issue.ID, issue.BookID, issue.MemberID, issue.IssueDate, issue.DueDate, issue.FineAmount)
	if err != nil {
		return dbx.MapError(err)
	}
	return nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.BookIssue, error) {
	i, err := scanIssue(r.db.QueryRowContext(ctx, `SELECT `+issueColumns+` FROM book_issues WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return i, nil
}

func (r *PostgresRepository) MarkReturned(ctx context.Context, id string, returnDate time.Time, fine int64) (*models.BookIssue, error) {
	query :=
		`UPDATE book_issues
		 SET return_date = $2, fine_amount = $3
		 WHERE id = $1 AND return_date IS NULL
		 RETURNING ` + issueColumns

	i, err := scanIssue(r.db.QueryRowContext(ctx, query, id, returnDate, fine))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrAlreadyReturned
	}
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return i, nil
}

func (r *PostgresRepository) ListOverdue(ctx context.Context, today time.Time) ([]*models.OverdueIssue, error) {
	query :=
		`SELECT i.id, i.book_id, i.member_id, i.issue_date, i.due_date, i.return_date, i.fine_amount,
		        b.title, m.name, m.email
		 FROM book_issues i
		 JOIN books b ON b.id = i.book_id
		 JOIN members m ON m.id = i.member_id
		 WHERE i.return_date IS NULL AND i.due_date < $1
		 ORDER BY i.due_date, i.id`

	rows, err := r.db.QueryContext(ctx, query, today)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.OverdueIssue
	for rows.Next() {
		o := &models.OverdueIssue{}
		i, err := scanIssue(rows, &o.BookTitle, &o.MemberName, &o.MemberEmail)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		o.BookIssue = *i
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

func (r *PostgresRepository) IssuedBookIDs(ctx context.Context, memberID string) ([]string, error) {
	query :=
		`SELECT DISTINCT book_id
		 FROM book_issues
		 WHERE member_id = $1`

	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*models.BookIssue, error) {
	query :=
		`SELECT ` + issueColumns + `
		 FROM book_issues
		 WHERE member_id = $1
		 ORDER BY issue_date DESC, id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	var out []*models.BookIssue
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, dbx.MapError(err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.MapError(err)
	}
	return out, nil
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/metrics"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/notify"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
)

// CirculationService keeps the loan ledger and the available-copies counter
// in step. Every mutation locks the rows it touches inside one transaction.
type CirculationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	log         logging.Logger
	loanPeriod  int
	finePerDay  int64
	now         func() time.Time
}

func NewCirculationService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, n Notifier, log logging.Logger) *CirculationService {
	return &CirculationService{
		db:          db,
		repomanager: m,
		notifier:    n,
		log:         log,
		loanPeriod:  cfg.Circulation.LoanPeriodDays,
		finePerDay:  cfg.Circulation.FinePerDay,
		now:         time.Now,
	}
}

// Issue lends one copy of bookID to memberID.
func (s *CirculationService) Issue(ctx context.Context, bookID, memberID string) (*models.BookIssue, error) {
	issue, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.BookIssue, error) {
		books := s.repomanager.Books(tx)

		book, err := books.GetForUpdate(ctx, bookID)
		if err != nil {
			return nil, err
		}

		member, err := s.repomanager.Members(tx).GetByID(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if !member.IsActive {
			return nil, common.ErrMemberInactive
		}

		if book.AvailableCopies <= 0 {
			return nil, common.ErrNoCopiesAvailable
		}

		if err := books.AdjustAvailable(ctx, book.ID, -1); err != nil {
			return nil, fmt.Errorf("error decrementing available copies: %w", err)
		}

		today := s.today()
		issue := &models.BookIssue{
			BookID:    book.ID,
			MemberID:  member.ID,
			IssueDate: today,
			DueDate:   today.AddDate(0, 0, s.loanPeriod),
		}
		if err := s.repomanager.Issues(tx).Create(ctx, issue); err != nil {
			return nil, fmt.Errorf("error creating issue: %w", err)
		}
		return issue, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BooksIssued.Inc()
	return issue, nil
}

// Return closes the loan, charges the late fine and puts the copy back.
func (s *CirculationService) Return(ctx context.Context, issueID string) (*models.BookIssue, error) {
	issue, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.BookIssue, error) {
		issues := s.repomanager.Issues(tx)

		issue, err := issues.GetForUpdate(ctx, issueID)
		if err != nil {
			return nil, err
		}
		if issue.Returned() {
			return nil, common.ErrAlreadyReturned
		}

		today := s.today()
		issue, err = issues.MarkReturned(ctx, issue.ID, today, Fine(issue.DueDate, today, s.finePerDay))
		if err != nil {
			return nil, err
		}

		books := s.repomanager.Books(tx)
		if _, err := books.GetForUpdate(ctx, issue.BookID); err != nil {
			return nil, err
		}
		if err := books.AdjustAvailable(ctx, issue.BookID, 1); err != nil {
			return nil, fmt.Errorf("error incrementing available copies: %w", err)
		}
		return issue, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReturn(issue.FineAmount)
	return issue, nil
}

// Overdue lists open loans past their due date and queues a reminder for each.
func (s *CirculationService) Overdue(ctx context.Context) ([]*models.OverdueIssue, error) {
	overdue, err := s.repomanager.Issues(s.db).ListOverdue(ctx, s.today())
	if err != nil {
		return nil, err
	}
	s.remind(ctx, overdue)
	return overdue, nil
}

// SendOverdueReminders is Overdue for background jobs: it reports how many
// reminders were queued.
func (s *CirculationService) SendOverdueReminders(ctx context.Context) (int, error) {
	overdue, err := s.repomanager.Issues(s.db).ListOverdue(ctx, s.today())
	if err != nil {
		return 0, err
	}
	return s.remind(ctx, overdue), nil
}

func (s *CirculationService) remind(ctx context.Context, overdue []*models.OverdueIssue) int {
	queued := 0
	for _, o := range overdue {
		if err := s.notifier.Enqueue(ctx, notify.Reminder(o)); err != nil {
			s.log.Warn(ctx, "overdue reminder not queued", "issue_id", o.ID, "error", err)
			continue
		}
		queued++
	}
	return queued
}

// ListByMember returns a member's loans, newest first.
func (s *CirculationService) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*models.BookIssue, error) {
	if _, err := s.repomanager.Members(s.db).GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	page := NormalizePage(models.ListOptions{Limit: limit, Offset: offset})
	return s.repomanager.Issues(s.db).ListByMember(ctx, memberID, page.Limit, page.Offset)
}

func (s *CirculationService) today() time.Time {
	return truncateDay(s.now())
}

// Fine charges perDay for every whole day returned is past due.
func Fine(due, returned time.Time, perDay int64) int64 {
	days := int64(truncateDay(returned).Sub(truncateDay(due)).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return days * perDay
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

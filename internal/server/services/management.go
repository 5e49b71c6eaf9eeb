package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/metrics"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/notify"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
)

// ManagementService runs the role-upgrade workflow: a user files a request,
// an admin approves or rejects it exactly once.
type ManagementService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    Notifier
	log         logging.Logger
}

func NewManagementService(db *sql.DB, m repomanager.RepositoryManager, n Notifier, log logging.Logger) *ManagementService {
	return &ManagementService{db: db, repomanager: m, notifier: n, log: log}
}

// CreateRequest files a pending request for role. The requester's user row is
// locked first, so two concurrent submissions cannot both pass the
// pending-request check.
func (s *ManagementService) CreateRequest(ctx context.Context, userID string, role models.Role) (*models.ManagementRequest, error) {
	if !role.IsElevated() {
		return nil, common.ErrInvalidRole
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.ManagementRequest, error) {
		if _, err := s.repomanager.Users(tx).GetByIDForUpdate(ctx, userID); err != nil {
			return nil, err
		}

		repo := s.repomanager.Requests(tx)
		pending, err := repo.HasPending(ctx, userID)
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, common.ErrPendingRequestExists
		}

		req := &models.ManagementRequest{UserID: userID, RequestedRole: role, Status: models.StatusPending}
		if err := repo.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("error creating management request: %w", err)
		}
		return req, nil
	})
}

// Approve promotes the requester. Within one transaction it locks the pending
// request, updates the user's role and staff flag, makes sure a management
// profile exists for the role and resolves the request. The requester is
// notified after commit.
func (s *ManagementService) Approve(ctx context.Context, requestID, approverID string) (*models.ManagementRequest, error) {
	var user *models.User

	req, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.ManagementRequest, error) {
		requests := s.repomanager.Requests(tx)

		req, err := requests.GetPendingForUpdate(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if !req.RequestedRole.IsElevated() {
			return nil, common.ErrInvalidRole
		}

		users := s.repomanager.Users(tx)
		user, err = users.GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if err := users.UpdateRole(ctx, user.ID, req.RequestedRole, true); err != nil {
			return nil, fmt.Errorf("error updating role: %w", err)
		}
		user.Role, user.IsStaff = req.RequestedRole, true

		if err := s.ensureManagementProfile(ctx, tx, user.ID, req.RequestedRole); err != nil {
			return nil, err
		}

		return requests.Resolve(ctx, req.ID, models.StatusApproved, approverID)
	})
	if err != nil {
		return nil, err
	}

	metrics.ManagementDecisions.WithLabelValues(string(models.StatusApproved)).Inc()

	if err := s.notifier.Enqueue(ctx, notify.Approval(user, req.RequestedRole)); err != nil {
		s.log.Warn(ctx, "approval notification not queued", "request_id", req.ID, "error", err)
	}
	return req, nil
}

// Reject closes a pending request without touching the user.
func (s *ManagementService) Reject(ctx context.Context, requestID, actorID string) (*models.ManagementRequest, error) {
	req, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.ManagementRequest, error) {
		requests := s.repomanager.Requests(tx)
		if _, err := requests.GetPendingForUpdate(ctx, requestID); err != nil {
			return nil, err
		}
		return requests.Resolve(ctx, requestID, models.StatusRejected, actorID)
	})
	if err != nil {
		return nil, err
	}

	metrics.ManagementDecisions.WithLabelValues(string(models.StatusRejected)).Inc()
	return req, nil
}

// ListRequests returns requests newest first, optionally filtered by status.
func (s *ManagementService) ListRequests(ctx context.Context, status models.RequestStatus, limit, offset int) ([]*models.ManagementRequest, error) {
	page := NormalizePage(models.ListOptions{Limit: limit, Offset: offset})
	return s.repomanager.Requests(s.db).List(ctx, status, page.Limit, page.Offset)
}

func (s *ManagementService) ensureManagementProfile(ctx context.Context, tx dbx.DBTX, userID string, role models.Role) error {
	profiles := s.repomanager.Profiles(tx)

	_, err := profiles.GetManagement(ctx, userID, role)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	managementID, err := NextManagementID(ctx, s.repomanager.Sequences(tx), role)
	if err != nil {
		return err
	}

	p := &models.ManagementProfile{UserID: userID, Role: role, ManagementID: managementID}
	if err := profiles.CreateManagement(ctx, p); err != nil {
		return fmt.Errorf("error creating management profile: %w", err)
	}
	return nil
}

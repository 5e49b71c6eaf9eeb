// Package services contains server-side business logic. This file implements
// UserService: signup, password login, JWT access tokens and rotating
// server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/libris/internal/common"
	"github.com/dmitrijs2005/libris/internal/cryptox"
	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/auth"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/dmitrijs2005/libris/internal/server/models"
	"github.com/dmitrijs2005/libris/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Profile is the signed-in user together with whatever profiles they hold.
type Profile struct {
	User       *models.User                `json:"user"`
	Member     *models.MemberProfile       `json:"member_profile,omitempty"`
	Management []*models.ManagementProfile `json:"management_profiles"`
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.Auth.SecretKey),
		accessTokenValidityDuration:  cfg.Auth.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.Auth.RefreshTokenValidityDuration,
	}
}

// Signup creates a member account and its MemberProfile in one transaction.
func (s *UserService) Signup(ctx context.Context, email, name, password string) (*models.User, *models.MemberProfile, error) {
	hash, salt, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	var (
		user    *models.User
		profile *models.MemberProfile
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Salt:         salt,
			Role:         models.RoleMember,
			IsActive:     true,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		membershipID, err := NextMemberID(ctx, s.repomanager.Sequences(tx))
		if err != nil {
			return err
		}

		p := &models.MemberProfile{UserID: u.ID, MembershipID: membershipID}
		if err := s.repomanager.Profiles(tx).CreateMember(ctx, p); err != nil {
			return fmt.Errorf("error creating member profile: %w", err)
		}

		user, profile = u, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// CreateAdmin bootstraps an administrator with an ADM- management profile.
func (s *UserService) CreateAdmin(ctx context.Context, email, name, password string) (*models.User, *models.ManagementProfile, error) {
	hash, salt, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	var (
		user    *models.User
		profile *models.ManagementProfile
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Salt:         salt,
			Role:         models.RoleAdmin,
			IsActive:     true,
			IsStaff:      true,
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		managementID, err := NextManagementID(ctx, s.repomanager.Sequences(tx), models.RoleAdmin)
		if err != nil {
			return err
		}

		p := &models.ManagementProfile{UserID: u.ID, Role: models.RoleAdmin, ManagementID: managementID}
		if err := s.repomanager.Profiles(tx).CreateManagement(ctx, p); err != nil {
			return fmt.Errorf("error creating management profile: %w", err)
		}

		user, profile = u, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// Login verifies the password and returns a new TokenPair. Unknown emails,
// wrong passwords and inactive accounts all yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(password, user.Salt, user.PasswordHash) || !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		var err error
		pair, err = s.generateTokenPair(ctx, token.UserID, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes a refresh token. Unknown tokens are reported as invalid.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if _, err := repo.Find(ctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("error searching refresh token: %w", err)
	}
	if err := repo.Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to the current state of its user.
// The role is read from the database, so promotions apply immediately.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profiles := s.repomanager.Profiles(s.db)

	p := &Profile{User: user}
	member, err := profiles.GetMemberByUser(ctx, userID)
	switch {
	case err == nil:
		p.Member = member
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	p.Management, err = profiles.ListManagementByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PurgeExpiredTokens removes refresh tokens past their expiry.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, time.Now())
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/familytree-api/internal/auth"
	"github.com/yukikurage/familytree-api/internal/clock"
	"github.com/yukikurage/familytree-api/internal/models"
	"github.com/yukikurage/familytree-api/internal/repository"
	"github.com/yukikurage/familytree-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionManager issues, validates and revokes bearer tokens. Expired
// sessions are never swept; they are rejected lazily when presented.
type SessionManager struct {
	sessionRepo repository.SessionRepository
	clock       clock.Clock
	ttl         time.Duration
	log         *zap.Logger
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(sessionRepo repository.SessionRepository, clk clock.Clock, ttl time.Duration, log *zap.Logger) *SessionManager {
	return &SessionManager{
		sessionRepo: sessionRepo,
		clock:       clk,
		ttl:         ttl,
		log:         log,
	}
}

// Issue creates a session for userID valid for the configured lifetime.
func (m *SessionManager) Issue(ctx context.Context, userID uint64) (*models.Session, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := m.clock.Now()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Validate resolves token to its user. Every failure collapses to false so
// callers cannot tell an unknown token from an expired or revoked one.
func (m *SessionManager) Validate(ctx context.Context, token string) (*auth.User, bool) {
	if token == "" {
		return nil, false
	}

	session, err := m.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			m.log.Error("session lookup failed", zap.Error(err))
		}
		return nil, false
	}

	if !m.clock.Now().Before(session.ExpiresAt) {
		return nil, false
	}
	if !session.User.IsActive {
		return nil, false
	}

	return &auth.User{
		ID:       session.User.ID,
		Username: session.User.Username,
		Email:    session.User.EmailValue(),
		FullName: session.User.FullName,
	}, true
}

// Revoke deletes the session for token. Unknown tokens are ignored.
func (m *SessionManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session of userID except keepToken.
func (m *SessionManager) RevokeAll(ctx context.Context, userID uint64, keepToken string) error {
	if err := m.sessionRepo.DeleteByUserID(ctx, userID, keepToken); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

// DefaultSessionDuration is used when the configured duration is not positive.
const DefaultSessionDuration = 7 * 24 * time.Hour

// sessionService is the concrete implementation of SessionService. Tokens
// are random strings handed to the client once; the repository only stores
// their SHA-256 digest.
type sessionService struct {
	sessionRepository store.SessionRepository
	userRepository    store.UserRepository

	// duration is the fixed validity window of new sessions.
	duration time.Duration

	now    func() time.Time
	logger *logger.Logger
}

func NewSessionService(sessionRepository store.SessionRepository, userRepository store.UserRepository, cfg config.App, logger *logger.Logger) SessionService {
	duration := cfg.SessionDuration
	if duration <= 0 {
		duration = DefaultSessionDuration
	}

	return &sessionService{
		sessionRepository: sessionRepository,
		userRepository:    userRepository,
		duration:          duration,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *sessionService) Issue(ctx context.Context, userID int64, meta models.ClientMeta) (string, time.Time, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	now := s.now().UTC()
	session := models.Session{
		TokenHash: utils.HashToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(s.duration),
		CreatedAt: now,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	if err = s.sessionRepository.CreateSession(ctx, session); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionService.Issue").Int64("user_id", userID).Msg("error saving session")
		return "", time.Time{}, fromStoreError(err)
	}

	return token, session.ExpiresAt, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (models.User, bool) {
	if token == "" {
		return models.User{}, false
	}
	log := logger.FromContext(ctx)

	tokenHash := utils.HashToken(token)
	session, err := s.sessionRepository.FindSession(ctx, tokenHash)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Str("func", "*sessionService.Validate").Msg("error looking up session")
		}
		return models.User{}, false
	}

	if session.Expired(s.now()) {
		if _, err = s.sessionRepository.DeleteSession(ctx, tokenHash); err != nil {
			log.Err(err).Str("func", "*sessionService.Validate").Msg("error deleting expired session")
		}
		return models.User{}, false
	}

	user, err := s.userRepository.FindUserByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Str("func", "*sessionService.Validate").Msg("error looking up session owner")
		}
		return models.User{}, false
	}
	if !user.IsActive {
		return models.User{}, false
	}

	return user, true
}

func (s *sessionService) Revoke(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	removed, err := s.sessionRepository.DeleteSession(ctx, utils.HashToken(token))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionService.Revoke").Msg("error deleting session")
		return false, fromStoreError(err)
	}

	return removed, nil
}

func (s *sessionService) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.sessionRepository.DeleteExpiredSessions(ctx, s.now().UTC())
	if err != nil {
		return 0, fromStoreError(err)
	}
	return removed, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/validators"
	"github.com/MKhiriev/go-invoicer/models"
)

// authService is the concrete implementation of AuthService.
//
// Its errors are limited to ErrValidation, ErrDuplicateEmail,
// ErrInvalidCredentials, ErrAccountDisabled, ErrNotFound and ErrInternal;
// storage details are logged and never surfaced.
type authService struct {
	credentials CredentialService
	sessions    SessionService
	validator   validators.Validator

	logger *logger.Logger
}

// NewAuthService constructs an AuthService on top of the given credential
// and session services.
func NewAuthService(credentials CredentialService, sessions SessionService, validator validators.Validator, logger *logger.Logger) AuthService {
	return &authService{
		credentials: credentials,
		sessions:    sessions,
		validator:   validator,
		logger:      logger,
	}
}

// Register validates the request before touching storage, creates the user
// and opens a first session for it.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest, meta models.ClientMeta) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if err := validate(ctx, a.validator, req); err != nil {
		return models.AuthResult{}, err
	}

	user, err := a.credentials.CreateUser(ctx, req, models.RoleUser)
	if err != nil {
		return models.AuthResult{}, internalUnless(err, ErrDuplicateEmail, ErrValidation)
	}

	token, expiresAt, err := a.sessions.Issue(ctx, user.ID, meta)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Int64("user_id", user.ID).Msg("error issuing session")
		return models.AuthResult{}, internalUnless(err)
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")

	return models.AuthResult{User: user.Sanitize(), SessionToken: token, ExpiresAt: expiresAt}, nil
}

// Login authenticates the credentials, stamps lastLoginAt and issues a new
// session. Existing sessions of the user stay valid.
func (a *authService) Login(ctx context.Context, req models.LoginRequest, meta models.ClientMeta) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if err := validate(ctx, a.validator, req); err != nil {
		return models.AuthResult{}, err
	}

	user, err := a.credentials.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return models.AuthResult{}, internalUnless(err, ErrInvalidCredentials, ErrAccountDisabled)
	}

	lastLogin, err := a.credentials.TouchLastLogin(ctx, user.ID)
	if err != nil {
		return models.AuthResult{}, internalUnless(err)
	}
	user.LastLoginAt = &lastLogin

	token, expiresAt, err := a.sessions.Issue(ctx, user.ID, meta)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Int64("user_id", user.ID).Msg("error issuing session")
		return models.AuthResult{}, internalUnless(err)
	}

	return models.AuthResult{User: user.Sanitize(), SessionToken: token, ExpiresAt: expiresAt}, nil
}

func (a *authService) Logout(ctx context.Context, token string) (bool, error) {
	removed, err := a.sessions.Revoke(ctx, token)
	if err != nil {
		return false, internalUnless(err)
	}
	return removed, nil
}

func (a *authService) Authenticate(ctx context.Context, token string) (models.User, bool) {
	return a.sessions.Validate(ctx, token)
}

func (a *authService) CurrentUser(ctx context.Context, token string) (models.SanitizedUser, bool) {
	user, ok := a.sessions.Validate(ctx, token)
	if !ok {
		return models.SanitizedUser{}, false
	}
	return user.Sanitize(), true
}

func (a *authService) ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error {
	if err := validate(ctx, a.validator, req); err != nil {
		return err
	}

	err := a.credentials.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword)
	return internalUnless(err, ErrInvalidCredentials, ErrNotFound, ErrValidation)
}

func (a *authService) SetUserActive(ctx context.Context, userID int64, active bool) (models.SanitizedUser, error) {
	user, err := a.credentials.SetActive(ctx, userID, active)
	if err != nil {
		return models.SanitizedUser{}, internalUnless(err, ErrNotFound)
	}

	logger.FromContext(ctx).Info().Int64("user_id", userID).Bool("active", active).Msg("user activity changed")

	return user.Sanitize(), nil
}

// internalUnless returns err unchanged when it matches one of allowed or is
// already ErrInternal, and wraps it with ErrInternal otherwise.
func internalUnless(err error, allowed ...error) error {
	if err == nil || errors.Is(err, ErrInternal) {
		return err
	}
	for _, target := range allowed {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/models"
)

// dummyPassword is hashed once and compared against when the email of a
// login attempt is unknown, so both failures take the same time.
const dummyPassword = "go-invoicer-dummy-password"

// credentialService is the concrete implementation of CredentialService.
type credentialService struct {
	userRepository store.UserRepository

	// hashCost is the bcrypt cost of new hashes.
	hashCost int

	dummyHashOnce sync.Once
	dummyHash     []byte

	now    func() time.Time
	logger *logger.Logger
}

func NewCredentialService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) CredentialService {
	cost := cfg.PasswordHashCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &credentialService{
		userRepository: userRepository,
		hashCost:       cost,
		now:            time.Now,
		logger:         logger,
	}
}

func (c *credentialService) CreateUser(ctx context.Context, req models.RegisterRequest, role models.Role) (models.User, error) {
	log := logger.FromContext(ctx)

	hash, err := c.hashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*credentialService.CreateUser").Msg("error hashing password")
		return models.User{}, err
	}

	now := c.now().UTC()
	user, err := c.userRepository.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Phone:        req.Phone,
		Company:      req.Company,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if !errors.Is(err, store.ErrEmailAlreadyExists) {
			log.Err(err).Str("func", "*credentialService.CreateUser").Msg("error creating user")
		}
		return models.User{}, fromStoreError(err)
	}

	return user, nil
}

func (c *credentialService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := c.userRepository.FindUserByEmail(ctx, normalizeEmail(email))
	return activeOnly(user, err)
}

func (c *credentialService) FindByID(ctx context.Context, id int64) (models.User, error) {
	user, err := c.userRepository.FindUserByID(ctx, id)
	return activeOnly(user, err)
}

func (c *credentialService) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (c *credentialService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := c.userRepository.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// keep timing close to a wrong password
			_ = bcrypt.CompareHashAndPassword(c.getDummyHash(), []byte(password))
			return models.User{}, ErrInvalidCredentials
		}
		logger.FromContext(ctx).Err(err).Str("func", "*credentialService.Authenticate").Msg("error looking up user")
		return models.User{}, fromStoreError(err)
	}

	if !c.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return models.User{}, ErrAccountDisabled
	}

	return user, nil
}

func (c *credentialService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := c.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !c.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := c.hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err = c.userRepository.UpdatePassword(ctx, userID, hash, c.now().UTC()); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*credentialService.ChangePassword").Msg("error updating password")
		return fromStoreError(err)
	}

	return nil
}

// SetActive looks the user up regardless of its current state.
func (c *credentialService) SetActive(ctx context.Context, userID int64, active bool) (models.User, error) {
	if err := c.userRepository.SetActive(ctx, userID, active, c.now().UTC()); err != nil {
		return models.User{}, fromStoreError(err)
	}

	user, err := c.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fromStoreError(err)
	}

	return user, nil
}

func (c *credentialService) TouchLastLogin(ctx context.Context, userID int64) (time.Time, error) {
	now := c.now().UTC()
	if err := c.userRepository.TouchLastLogin(ctx, userID, now); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*credentialService.TouchLastLogin").Msg("error updating last login")
		return time.Time{}, fromStoreError(err)
	}
	return now, nil
}

func (c *credentialService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return string(hash), nil
}

func (c *credentialService) getDummyHash() []byte {
	c.dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), c.hashCost)
		if err != nil {
			c.logger.Err(err).Str("func", "*credentialService.getDummyHash").Msg("error hashing dummy password")
		}
		c.dummyHash = hash
	})
	return c.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func activeOnly(user models.User, err error) (models.User, error) {
	if err != nil {
		return models.User{}, fromStoreError(err)
	}
	if !user.IsActive {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

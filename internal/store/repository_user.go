package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

// userRepository is the database/sql implementation of [UserRepository]
// backed by the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with the
// server-assigned id.
//
// Error handling:
//   - unique index violation on email → [ErrEmailAlreadyExists], which
//     also matches [ErrConflict].
//   - any other driver-level error → wrapped [ErrExecutingQuery].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert("users").
		Columns("name", "email", "password_hash", "role", "is_active", "email_verified", "phone", "company", "created_at", "updated_at").
		Values(user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Role, user.IsActive, user.EmailVerified, user.Phone, user.Company, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		err = r.db.classify(err, ErrExecutingQuery)
		if errors.Is(err, ErrConflict) && violatesEmailIndex(err) {
			return models.User{}, fmt.Errorf("%w: %w", ErrEmailAlreadyExists, err)
		}
		return models.User{}, err
	}

	return created, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": strings.ToLower(email)})
}

func (r *userRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", sq.Eq{"id": id})
}

func (r *userRepository) findOne(ctx context.Context, funcName string, where sq.Eq) (models.User, error) {
	query, args, err := r.db.builder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrScanningRow)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error selecting user")
		}
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	return r.update(ctx, "*userRepository.UpdatePassword", id, map[string]any{
		"password_hash": passwordHash,
		"updated_at":    updatedAt,
	})
}

func (r *userRepository) SetActive(ctx context.Context, id int64, active bool, updatedAt time.Time) error {
	return r.update(ctx, "*userRepository.SetActive", id, map[string]any{
		"is_active":  active,
		"updated_at": updatedAt,
	})
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, "*userRepository.TouchLastLogin", id, map[string]any{
		"last_login_at": at,
	})
}

func (r *userRepository) update(ctx context.Context, funcName string, id int64, values map[string]any) error {
	query, args, err := r.db.builder.Update("users").SetMap(values).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return execAffectingOne(ctx, r.db, funcName, query, args)
}

// execAffectingOne executes a DML statement and returns ErrNotFound when no
// row was affected.
func execAffectingOne(ctx context.Context, db *DB, funcName, query string, args []any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error executing statement")
		return db.classify(err, ErrExecutingQuery)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

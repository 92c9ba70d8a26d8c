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

// sessionRepository is the database/sql implementation of
// [SessionRepository] backed by the "user_sessions" table.
type sessionRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) error {
	query, args, err := r.db.builder.
		Insert("user_sessions").
		Columns(sessionColumns...).
		Values(session.TokenHash, session.UserID, session.ExpiresAt, session.CreatedAt, session.IPAddress, session.UserAgent).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error inserting session")
		return r.db.classify(err, ErrExecutingQuery)
	}

	return nil
}

func (r *sessionRepository) FindSession(ctx context.Context, tokenHash string) (models.Session, error) {
	query, args, err := r.db.builder.
		Select(strings.Join(sessionColumns, ", ")).
		From("user_sessions").
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	session, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrScanningRow)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.FindSession").Msg("error selecting session")
		}
		return models.Session{}, err
	}

	return session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, tokenHash string) (bool, error) {
	affected, err := r.delete(ctx, "*sessionRepository.DeleteSession", sq.Eq{"token_hash": tokenHash})
	return affected > 0, err
}

func (r *sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.delete(ctx, "*sessionRepository.DeleteExpiredSessions", sq.LtOrEq{"expires_at": now})
}

func (r *sessionRepository) delete(ctx context.Context, funcName string, where sq.Sqlizer) (int64, error) {
	query, args, err := r.db.builder.Delete("user_sessions").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error deleting sessions")
		return 0, r.db.classify(err, ErrExecutingQuery)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return affected, nil
}

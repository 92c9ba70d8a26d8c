package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/migrations"
)

// DB wraps a *sql.DB with the dialect specific pieces the repositories need:
// the placeholder format of the query builder and the classifier of driver
// errors.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, dialect string, placeholder sq.PlaceholderFormat, classifier ErrorClassificator, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		dialect:            dialect,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
	}
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// classify maps a driver error onto a store sentinel. Errors that are not
// constraint violations are wrapped with fallback.
func (db *DB) classify(err error, fallback error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	switch db.errorClassificator.Classify(err) {
	case UniqueViolation:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case ForeignKeyViolation:
		if violatesOwnerKey(err) {
			return fmt.Errorf("%w: %w", ErrOwnerNotFound, err)
		}
		return fmt.Errorf("%w: %w", ErrReferenceNotFound, err)
	default:
		return fmt.Errorf("%w: %w", fallback, err)
	}
}

// inTx runs fn inside a transaction, rolling back when fn fails.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.FromContext(ctx).Err(rbErr).Str("func", "*DB.inTx").Msg("error rolling back transaction")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// nullID stores a zero id as NULL.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

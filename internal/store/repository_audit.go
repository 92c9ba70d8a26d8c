package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

type auditLogRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewAuditLogRepository(db *DB, logger *logger.Logger) AuditLogRepository {
	logger.Debug().Msg("creating audit log repository")
	return &auditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *auditLogRepository) CreateAuditLog(ctx context.Context, entry models.AuditLog) (models.AuditLog, error) {
	query, args, err := r.db.builder.
		Insert("audit_logs").
		Columns(auditLogColumns[1:]...).
		Values(entry.UserID, entry.Entity, entry.EntityID, entry.Action, entry.Details, entry.CreatedAt).
		Suffix("RETURNING " + strings.Join(auditLogColumns, ", ")).
		ToSql()
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := scanAuditLog(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*auditLogRepository.CreateAuditLog").Msg("error inserting audit log")
		return models.AuditLog{}, r.db.classify(err, ErrExecutingQuery)
	}

	return created, nil
}

func (r *auditLogRepository) ListAuditLogs(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error) {
	builder := r.db.builder.
		Select(auditLogColumns...).
		From("audit_logs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*auditLogRepository.ListAuditLogs").Msg("error selecting audit logs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.AuditLog, 0)
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

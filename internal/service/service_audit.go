package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/models"
)

const (
	DefaultAuditLogLimit = 50
	MaxAuditLogLimit     = 500
)

type auditService struct {
	auditLogRepository store.AuditLogRepository

	now    func() time.Time
	logger *logger.Logger
}

func NewAuditService(auditLogRepository store.AuditLogRepository, logger *logger.Logger) AuditService {
	return &auditService{
		auditLogRepository: auditLogRepository,
		now:                time.Now,
		logger:             logger,
	}
}

func (s *auditService) Record(ctx context.Context, userID int64, entity string, entityID int64, action, details string) {
	entry := models.AuditLog{
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
		CreatedAt: s.now().UTC(),
	}

	if _, err := s.auditLogRepository.CreateAuditLog(ctx, entry); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*auditService.Record").
			Str("entity", entity).
			Int64("entity_id", entityID).
			Str("action", action).
			Msg("error writing audit log")
	}
}

// List returns the newest entries first. A non-positive limit selects
// DefaultAuditLogLimit; limits above MaxAuditLogLimit are capped.
func (s *auditService) List(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error) {
	switch {
	case limit <= 0:
		limit = DefaultAuditLogLimit
	case limit > MaxAuditLogLimit:
		limit = MaxAuditLogLimit
	}

	entries, err := s.auditLogRepository.ListAuditLogs(ctx, userID, limit)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*auditService.List").Msg("error listing audit logs")
		return nil, fromStoreError(err)
	}
	return entries, nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/mock"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/models"
)

func TestAuditService_List_Limits(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultAuditLogLimit},
		{name: "negative", limit: -3, want: DefaultAuditLogLimit},
		{name: "as given", limit: 10, want: 10},
		{name: "capped", limit: 10_000, want: MaxAuditLogLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockAuditLogRepository(ctrl)
			repo.EXPECT().ListAuditLogs(gomock.Any(), int64(1), tt.want).Return([]models.AuditLog{}, nil)

			svc := NewAuditService(repo, logger.Nop())
			_, err := svc.List(context.Background(), 1, tt.limit)
			require.NoError(t, err)
		})
	}
}

func TestAuditService_Record_SwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockAuditLogRepository(ctrl)

	repo.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.AuditLog) (models.AuditLog, error) {
			assert.Equal(t, int64(3), entry.UserID)
			assert.Equal(t, "invoice", entry.Entity)
			assert.Equal(t, "status", entry.Action)
			assert.False(t, entry.CreatedAt.IsZero())
			return models.AuditLog{}, store.ErrExecutingQuery
		})

	svc := NewAuditService(repo, logger.Nop())
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), 3, "invoice", 9, "status", "paid")
	})
}

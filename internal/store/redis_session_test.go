package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisSessionRepository_RoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, logger.Nop())
	ctx := context.Background()

	session := models.Session{
		TokenHash: "deadbeef",
		UserID:    9,
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		IPAddress: "127.0.0.1",
	}
	require.NoError(t, repo.CreateSession(ctx, session))
	assert.True(t, mr.Exists("session:deadbeef"))
	assert.Greater(t, mr.TTL("session:deadbeef"), 59*time.Minute)

	got, err := repo.FindSession(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))

	removed, err := repo.DeleteSession(ctx, "deadbeef")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.FindSession(ctx, "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSessionRepository_ExpiresWithTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, models.Session{TokenHash: "h", ExpiresAt: time.Now().Add(time.Minute)}))

	mr.FastForward(2 * time.Minute)

	_, err := repo.FindSession(ctx, "h")
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := repo.DeleteExpiredSessions(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRedisSessionRepository_SkipsExpired(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, logger.Nop())

	require.NoError(t, repo.CreateSession(context.Background(), models.Session{TokenHash: "old", ExpiresAt: time.Now().Add(-time.Second)}))
	assert.False(t, mr.Exists("session:old"))
}

func TestRedisSessionRepository_ServerDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisSessionRepository(client, logger.Nop())
	mr.Close()

	_, err := repo.FindSession(context.Background(), "h")
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.Redis{Address: mr.Addr()}, logger.Nop())
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.Redis{Address: mr.Addr()}, logger.Nop())
	assert.Error(t, err)
}

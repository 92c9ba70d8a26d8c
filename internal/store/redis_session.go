package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

const sessionKeyPrefix = "session:"

// redisSessionRepository implements [SessionRepository] on Redis. Each
// session is a JSON value under "session:<token hash>" whose TTL ends at the
// session's expiry, so Redis evicts expired sessions by itself.
type redisSessionRepository struct {
	client *redis.Client
	prefix string
	logger *logger.Logger
	now    func() time.Time
}

// NewRedisClient connects to cfg.Address and pings it.
func NewRedisClient(ctx context.Context, cfg config.Redis, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisClient").Msg("error connecting redis (ping)")
		client.Close()
		return nil, fmt.Errorf("error connecting redis: %w", err)
	}
	log.Info().Str("func", "NewRedisClient").Msg("connected to redis successfully")

	return client, nil
}

func NewRedisSessionRepository(client *redis.Client, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating redis session repository")
	return &redisSessionRepository{
		client: client,
		prefix: sessionKeyPrefix,
		logger: logger,
		now:    time.Now,
	}
}

func (r *redisSessionRepository) CreateSession(ctx context.Context, session models.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		// already expired, nothing to keep
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err = r.client.Set(ctx, r.prefix+session.TokenHash, data, ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisSessionRepository.CreateSession").Msg("error saving session")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *redisSessionRepository) FindSession(ctx context.Context, tokenHash string) (models.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+tokenHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, ErrNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*redisSessionRepository.FindSession").Msg("error reading session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var session models.Session
	if err = json.Unmarshal(data, &session); err != nil {
		return models.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return session, nil
}

func (r *redisSessionRepository) DeleteSession(ctx context.Context, tokenHash string) (bool, error) {
	removed, err := r.client.Del(ctx, r.prefix+tokenHash).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisSessionRepository.DeleteSession").Msg("error deleting session")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return removed > 0, nil
}

// DeleteExpiredSessions is a no-op: key TTLs expire sessions.
func (r *redisSessionRepository) DeleteExpiredSessions(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

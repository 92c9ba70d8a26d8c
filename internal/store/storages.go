package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
)

// Storages groups every repository used by the service layer.
type Storages struct {
	UserRepository     UserRepository
	SessionRepository  SessionRepository
	ClientRepository   ClientRepository
	ProductRepository  ProductRepository
	InvoiceRepository  InvoiceRepository
	AuditLogRepository AuditLogRepository

	closers []func() error
}

// NewMemoryStorages backs every repository with a single MemoryStore.
func NewMemoryStorages() *Storages {
	m := NewMemoryStore()
	return &Storages{
		UserRepository:     m,
		SessionRepository:  m,
		ClientRepository:   m,
		ProductRepository:  m,
		InvoiceRepository:  m,
		AuditLogRepository: m,
	}
}

// NewStorages opens the configured backends, applies migrations to the
// relational store and wires the repositories. Sessions are moved to Redis
// when cfg.Redis.Address is set.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	var storages *Storages

	switch cfg.DB.Driver {
	case config.DriverMemory:
		storages = NewMemoryStorages()
		log.Info().Msg("using in-memory storage")
	case config.DriverPostgres, config.DriverSQLite:
		db, err := connect(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err = db.Migrate(); err != nil {
			db.Close()
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			return nil, err
		}
		storages = &Storages{
			UserRepository:     NewUserRepository(db, log),
			SessionRepository:  NewSessionRepository(db, log),
			ClientRepository:   NewClientRepository(db, log),
			ProductRepository:  NewProductRepository(db, log),
			InvoiceRepository:  NewInvoiceRepository(db, log),
			AuditLogRepository: NewAuditLogRepository(db, log),
			closers:            []func() error{db.Close},
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DB.Driver)
	}

	if cfg.Redis.Address != "" {
		client, err := NewRedisClient(ctx, cfg.Redis, log)
		if err != nil {
			storages.Close()
			return nil, err
		}
		storages.SessionRepository = NewRedisSessionRepository(client, log)
		storages.closers = append(storages.closers, client.Close)
	}

	return storages, nil
}

func connect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if cfg.Driver == config.DriverPostgres {
		return NewConnectPostgres(ctx, cfg, log)
	}
	return NewConnectSQLite(ctx, cfg, log)
}

// Close releases every connection opened by NewStorages.
func (s *Storages) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	return errors.Join(errs...)
}

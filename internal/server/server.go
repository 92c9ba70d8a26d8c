package server

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/handler"
	"github.com/MKhiriev/go-invoicer/internal/logger"
)

// ShutdownTimeout bounds the graceful shutdown of all transports.
const ShutdownTimeout = 10 * time.Second

type server struct {
	transports []transport
	logger     *logger.Logger
}

// NewServer binds a listener for every configured transport. Listeners that
// were already bound are released when a later one fails.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := &server{logger: logger}

	if handlers.HTTP != nil && cfg.HTTPAddress != "" {
		h, err := newHTTPServer(handlers.HTTP.Init(), cfg, logger)
		if err != nil {
			return nil, err
		}
		s.transports = append(s.transports, h)
	}
	if handlers.GRPC != nil && cfg.GRPCAddress != "" {
		g, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			s.shutdownAll()
			return nil, err
		}
		s.transports = append(s.transports, g)
	}

	if len(s.transports) == 0 {
		return nil, errNoServersAreCreated
	}

	return s, nil
}

func (s *server) Run(ctx context.Context) error {
	errCh := make(chan error, len(s.transports))
	for _, t := range s.transports {
		s.logger.Info().Str("transport", t.name()).Msg("launching server")
		go func() {
			errCh <- t.serve()
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			s.logger.Error().Err(runErr).Msg("server stopped unexpectedly")
		}
	}

	s.shutdownAll()
	s.logger.Info().Msg("server Shutdown gracefully")

	return runErr
}

func (s *server) shutdownAll() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	for _, t := range s.transports {
		if err := t.shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error().Err(err).Str("transport", t.name()).Msg("shutdown failed")
		}
	}
}

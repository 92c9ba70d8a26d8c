package handler

import (
	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/handler/grpc"
	"github.com/MKhiriev/go-invoicer/internal/handler/http"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
)

// Handlers holds the transport handlers of the server. A transport without
// a listen address has a nil handler.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers builds a handler for every transport cfg gives an address to.
// Both transports draw trace ids from one source.
func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	if cfg.HTTPAddress == "" && cfg.GRPCAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	traceIDs := utils.NewTraceIDSource()
	handlers := new(Handlers)
	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg, logger).WithTraceIDs(traceIDs)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, traceIDs, logger)
	}

	logger.Info().
		Bool("http", handlers.HTTP != nil).
		Bool("grpc", handlers.GRPC != nil).
		Msg("transport handlers created")

	return handlers, nil
}

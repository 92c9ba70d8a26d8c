package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
)

// ServiceName is the name reported by the health service next to the
// server-wide "" entry.
const ServiceName = "go-invoicer"

// TraceIDKey is the metadata key carrying the trace id, the gRPC
// counterpart of the X-Trace-ID header.
const TraceIDKey = "x-trace-id"

// Handler is the root gRPC transport handler.
//
// The gRPC surface carries no business API: it exposes the standard
// grpc.health.v1.Health service and server reflection so that orchestrators
// can probe the process. A handler instance is created once at startup and
// shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health   *health.Server
	traceIDs *utils.TraceIDSource

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger. Both health entries start in SERVING state. A nil traceIDs gets a
// source of its own.
func NewHandler(services *service.Services, traceIDs *utils.TraceIDSource, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	if traceIDs == nil {
		traceIDs = utils.NewTraceIDSource()
	}

	return &Handler{
		services: services,
		health:   healthServer,
		traceIDs: traceIDs,
		logger:   logger,
	}
}

// Register attaches the health and reflection services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
	reflection.Register(s)
}

// Shutdown flips every health entry to NOT_SERVING so probes fail before the
// listener goes away.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

// ServerOptions returns the interceptors every gRPC server of the
// application is built with.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(h.unaryLogging),
	}
}

// unaryLogging writes one log line per unary call, with the same fields the
// HTTP access log uses. The call's trace id is echoed in the response header.
func (h *Handler) unaryLogging(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	traceID := h.traceIDs.Resolve(incomingTraceID(ctx))

	log := h.logger.GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	if err := grpc.SetHeader(ctx, metadata.Pairs(TraceIDKey, traceID)); err != nil {
		log.Debug().Err(err).Msg("error setting trace id header")
	}

	resp, err := handler(log.WithContext(ctx), req)

	code := status.Code(err)
	event := log.Debug()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}

func incomingTraceID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(TraceIDKey); len(values) > 0 {
		return values[0]
	}
	return ""
}

package http

import (
	"time"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
)

// sessionCookieName is the HttpOnly cookie carrying the session token next
// to the Authorization header.
const sessionCookieName = "session_token"

type Handler struct {
	services *service.Services

	requestTimeout time.Duration
	secureCookies  bool

	metrics  *httpMetrics
	traceIDs *utils.TraceIDSource
	logger   *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.RequestTimeout,
		secureCookies:  cfg.SecureCookies,
		metrics:        newHTTPMetrics(),
		traceIDs:       utils.NewTraceIDSource(),
		logger:         logger,
	}
}

// WithTraceIDs makes h draw trace ids from src.
func (h *Handler) WithTraceIDs(src *utils.TraceIDSource) *Handler {
	h.traceIDs = src
	return h
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

// PublicInvoicePath is the route a share link points at, relative to the
// public URL.
const PublicInvoicePath = "/public/invoices/"

// shareService signs invoice share links as HS256 JWTs.
type shareService struct {
	invoiceRepository store.InvoiceRepository

	signKey   string
	issuer    string
	duration  time.Duration
	publicURL string

	now    func() time.Time
	logger *logger.Logger
}

// NewShareService returns a ShareService configured from cfg. When no sign
// key is configured a random one is generated, so links do not survive a
// restart.
func NewShareService(invoiceRepository store.InvoiceRepository, cfg config.App, logger *logger.Logger) (ShareService, error) {
	signKey := cfg.ShareSignKey
	if signKey == "" {
		key, err := utils.GenerateSessionToken()
		if err != nil {
			return nil, fmt.Errorf("error generating share sign key: %w", err)
		}
		signKey = key
		logger.Warn().Msg("share sign key is not configured, using an ephemeral key")
	}

	return &shareService{
		invoiceRepository: invoiceRepository,
		signKey:           signKey,
		issuer:            cfg.ShareIssuer,
		duration:          cfg.ShareDuration,
		publicURL:         strings.TrimRight(cfg.PublicURL, "/"),
		now:               time.Now,
		logger:            logger,
	}, nil
}

func (s *shareService) Issue(ctx context.Context, userID, invoiceID int64) (models.ShareLink, error) {
	invoice, err := s.invoiceRepository.GetInvoice(ctx, invoiceID)
	if err != nil {
		return models.ShareLink{}, fromStoreError(err)
	}
	if invoice.UserID != userID {
		return models.ShareLink{}, ErrNotFound
	}

	token, expiresAt, err := utils.GenerateShareToken(s.issuer, invoice.ID, userID, s.duration, s.signKey, s.now())
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*shareService.Issue").Int64("invoice_id", invoiceID).Msg("error signing share link")
		return models.ShareLink{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return models.ShareLink{
		Token:     token,
		URL:       s.publicURL + PublicInvoicePath + token,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve returns the invoice a valid link points at. The link stops working
// when the invoice is deleted or changes owner.
func (s *shareService) Resolve(ctx context.Context, token string) (models.Invoice, error) {
	claims, err := utils.ValidateAndParseShareToken(token, s.signKey, s.issuer, s.now())
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("rejected share link")
		return models.Invoice{}, ErrInvalidShareToken
	}

	invoiceID, err := claims.InvoiceID()
	if err != nil {
		return models.Invoice{}, ErrInvalidShareToken
	}

	invoice, err := s.invoiceRepository.GetInvoice(ctx, invoiceID)
	if err != nil {
		return models.Invoice{}, fromStoreError(err)
	}
	if invoice.UserID != claims.OwnerID {
		return models.Invoice{}, ErrNotFound
	}

	return invoice, nil
}

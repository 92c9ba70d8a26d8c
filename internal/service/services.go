package service

import (
	"fmt"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/validators"
)

type Services struct {
	CredentialService CredentialService
	SessionService    SessionService
	AuthService       AuthService
	InvoiceService    InvoiceService
	ClientService     ClientService
	ProductService    ProductService
	DashboardService  DashboardService
	AuditService      AuditService
	ShareService      ShareService
	AppInfoService    AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	validator := validators.NewStructValidator()

	credentials := NewCredentialService(storages.UserRepository, cfg.App, logger)
	sessions := NewSessionService(storages.SessionRepository, storages.UserRepository, cfg.App, logger)
	audit := NewAuditService(storages.AuditLogRepository, logger)

	share, err := NewShareService(storages.InvoiceRepository, cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating share service: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	return &Services{
		CredentialService: credentials,
		SessionService:    sessions,
		AuthService:       NewAuthService(credentials, sessions, validator, logger),
		InvoiceService:    NewInvoiceService(storages.InvoiceRepository, storages.ClientRepository, audit, validator, logger),
		ClientService:     NewClientService(storages.ClientRepository, storages.InvoiceRepository, audit, validator, logger),
		ProductService:    NewProductService(storages.ProductRepository, validator, logger),
		DashboardService:  NewDashboardService(storages.InvoiceRepository, storages.ClientRepository, logger),
		AuditService:      audit,
		ShareService:      share,
		AppInfoService:    appInfo,
	}, nil
}

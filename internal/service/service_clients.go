package service

import (
	"context"
	"strings"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/validators"
	"github.com/MKhiriev/go-invoicer/models"
)

const entityClient = "client"

// clientService is the client book of a user. The outstanding balance of a
// client is the sum of its sent and overdue invoices, computed on read.
type clientService struct {
	clientRepository  store.ClientRepository
	invoiceRepository store.InvoiceRepository

	audit     AuditService
	validator validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

func NewClientService(clientRepository store.ClientRepository, invoiceRepository store.InvoiceRepository, audit AuditService, validator validators.Validator, logger *logger.Logger) ClientService {
	return &clientService{
		clientRepository:  clientRepository,
		invoiceRepository: invoiceRepository,
		audit:             audit,
		validator:         validator,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *clientService) Create(ctx context.Context, userID int64, client models.Client) (models.Client, error) {
	normalizeClient(&client)
	if err := validate(ctx, s.validator, client); err != nil {
		return models.Client{}, err
	}

	now := s.now().UTC()
	client.ID = 0
	client.UserID = userID
	client.OutstandingBalance = 0
	client.CreatedAt = now
	client.UpdatedAt = now

	created, err := s.clientRepository.CreateClient(ctx, client)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientService.Create").Msg("error creating client")
		return models.Client{}, fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityClient, created.ID, "create", created.Name)

	return created, nil
}

func (s *clientService) Get(ctx context.Context, userID, id int64) (models.Client, error) {
	client, err := s.owned(ctx, userID, id)
	if err != nil {
		return models.Client{}, err
	}

	balances, err := s.balances(ctx, userID)
	if err != nil {
		return models.Client{}, err
	}
	client.OutstandingBalance = balances[client.ID]

	return client, nil
}

func (s *clientService) List(ctx context.Context, userID int64) ([]models.Client, error) {
	clients, err := s.clientRepository.ListClients(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientService.List").Msg("error listing clients")
		return nil, fromStoreError(err)
	}

	balances, err := s.balances(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].OutstandingBalance = balances[clients[i].ID]
	}

	return clients, nil
}

func (s *clientService) Update(ctx context.Context, userID, id int64, client models.Client) (models.Client, error) {
	normalizeClient(&client)
	if err := validate(ctx, s.validator, client); err != nil {
		return models.Client{}, err
	}

	stored, err := s.owned(ctx, userID, id)
	if err != nil {
		return models.Client{}, err
	}

	client.ID = stored.ID
	client.UserID = stored.UserID
	client.CreatedAt = stored.CreatedAt
	client.UpdatedAt = s.now().UTC()

	updated, err := s.clientRepository.UpdateClient(ctx, client)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientService.Update").Int64("client_id", id).Msg("error updating client")
		return models.Client{}, fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityClient, id, "update", updated.Name)

	balances, err := s.balances(ctx, userID)
	if err != nil {
		return models.Client{}, err
	}
	updated.OutstandingBalance = balances[updated.ID]

	return updated, nil
}

// Delete removes the client. Its invoices keep their client snapshot.
func (s *clientService) Delete(ctx context.Context, userID, id int64) error {
	client, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err = s.clientRepository.DeleteClient(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientService.Delete").Int64("client_id", id).Msg("error deleting client")
		return fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityClient, id, "delete", client.Name)

	return nil
}

func (s *clientService) owned(ctx context.Context, userID, id int64) (models.Client, error) {
	client, err := s.clientRepository.GetClient(ctx, id)
	if err != nil {
		return models.Client{}, fromStoreError(err)
	}
	if client.UserID != userID {
		return models.Client{}, ErrNotFound
	}
	return client, nil
}

// balances sums the sent and overdue invoices of the user per client.
func (s *clientService) balances(ctx context.Context, userID int64) (map[int64]models.Money, error) {
	invoices, err := s.invoiceRepository.ListInvoices(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*clientService.balances").Msg("error listing invoices")
		return nil, fromStoreError(err)
	}

	balances := make(map[int64]models.Money)
	for _, inv := range invoices {
		if inv.ClientID == 0 {
			continue
		}
		if inv.Status == models.StatusSent || inv.Status == models.StatusOverdue {
			balances[inv.ClientID] += inv.Total
		}
	}
	return balances, nil
}

func normalizeClient(c *models.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/validators"
	"github.com/MKhiriev/go-invoicer/models"
)

// DefaultPaymentTermDays is the distance between issue and due date of new,
// duplicated and spawned invoices.
const DefaultPaymentTermDays = 30

const entityInvoice = "invoice"

// invoiceService is the concrete implementation of InvoiceService. Amounts
// are recomputed with models.Invoice.Recalculate on every mutation.
type invoiceService struct {
	invoiceRepository store.InvoiceRepository
	clientRepository  store.ClientRepository

	audit     AuditService
	validator validators.Validator

	now    func() time.Time
	logger *logger.Logger
}

func NewInvoiceService(invoiceRepository store.InvoiceRepository, clientRepository store.ClientRepository, audit AuditService, validator validators.Validator, logger *logger.Logger) InvoiceService {
	return &invoiceService{
		invoiceRepository: invoiceRepository,
		clientRepository:  clientRepository,
		audit:             audit,
		validator:         validator,
		now:               time.Now,
		logger:            logger,
	}
}

func (s *invoiceService) Create(ctx context.Context, userID int64, input models.InvoiceInput) (models.Invoice, error) {
	if err := validate(ctx, s.validator, input); err != nil {
		return models.Invoice{}, err
	}

	now := s.now().UTC()
	today := models.NewDate(now)

	invoice := models.Invoice{
		UserID:            userID,
		IssueDate:         today,
		Status:            models.StatusDraft,
		Items:             append([]models.InvoiceItem{}, input.Items...),
		TaxRate:           input.TaxRate,
		Discount:          input.Discount,
		Notes:             input.Notes,
		Terms:             input.Terms,
		Recurring:         models.RecurrenceNone,
		NextRecurringDate: input.NextRecurringDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.IssueDate != nil && !input.IssueDate.IsZero() {
		invoice.IssueDate = *input.IssueDate
	}
	invoice.DueDate = invoice.IssueDate.AddDays(DefaultPaymentTermDays)
	if input.DueDate != nil && !input.DueDate.IsZero() {
		invoice.DueDate = *input.DueDate
	}
	if input.Recurring != "" {
		invoice.Recurring = input.Recurring
	}
	if input.Client != nil {
		invoice.Client = *input.Client
	}
	if input.ClientID != 0 {
		if err := s.attachClient(ctx, userID, &invoice, input.ClientID); err != nil {
			return models.Invoice{}, err
		}
	}

	status := models.StatusDraft
	if input.Status != "" {
		status = input.Status
	}
	invoice.ApplyStatus(status, now)
	if err := recalculate(&invoice); err != nil {
		return models.Invoice{}, err
	}

	created, err := s.invoiceRepository.CreateInvoice(ctx, invoice)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceService.Create").Msg("error creating invoice")
		return models.Invoice{}, fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityInvoice, created.ID, "create", created.InvoiceNumber)

	return created, nil
}

func (s *invoiceService) Get(ctx context.Context, userID, id int64) (models.Invoice, error) {
	invoice, err := s.invoiceRepository.GetInvoice(ctx, id)
	if err != nil {
		return models.Invoice{}, fromStoreError(err)
	}
	if invoice.UserID != userID {
		return models.Invoice{}, ErrNotFound
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, userID int64, filter models.InvoiceFilter) ([]models.Invoice, error) {
	invoices, err := s.invoiceRepository.ListInvoices(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceService.List").Msg("error listing invoices")
		return nil, fromStoreError(err)
	}

	return FilterInvoices(invoices, Predicates(filter)...), nil
}

func (s *invoiceService) Update(ctx context.Context, userID, id int64, update models.InvoiceUpdate) (models.Invoice, error) {
	if err := validate(ctx, s.validator, update); err != nil {
		return models.Invoice{}, err
	}

	invoice, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Invoice{}, err
	}

	now := s.now().UTC()

	if update.Client != nil {
		invoice.Client = *update.Client
	}
	if update.ClientID != nil {
		invoice.ClientID = 0
		if *update.ClientID != 0 {
			if err = s.attachClient(ctx, userID, &invoice, *update.ClientID); err != nil {
				return models.Invoice{}, err
			}
		}
	}
	if update.IssueDate != nil {
		invoice.IssueDate = *update.IssueDate
	}
	if update.DueDate != nil {
		invoice.DueDate = *update.DueDate
	}
	if update.Items != nil {
		invoice.Items = append([]models.InvoiceItem{}, update.Items...)
	}
	if update.TaxRate != nil {
		invoice.TaxRate = *update.TaxRate
	}
	if update.Discount != nil {
		invoice.Discount = *update.Discount
	}
	if update.Notes != nil {
		invoice.Notes = *update.Notes
	}
	if update.Terms != nil {
		invoice.Terms = *update.Terms
	}
	if update.Recurring != nil {
		invoice.Recurring = *update.Recurring
	}
	if update.NextRecurringDate != nil {
		invoice.NextRecurringDate = update.NextRecurringDate
	}
	if update.Status != nil {
		invoice.ApplyStatus(*update.Status, now)
	}

	if err = recalculate(&invoice); err != nil {
		return models.Invoice{}, err
	}
	invoice.UpdatedAt = now

	updated, err := s.save(ctx, invoice)
	if err != nil {
		return models.Invoice{}, err
	}

	s.audit.Record(ctx, userID, entityInvoice, id, "update", updated.InvoiceNumber)

	return updated, nil
}

func (s *invoiceService) Delete(ctx context.Context, userID, id int64) error {
	invoice, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err = s.invoiceRepository.DeleteInvoice(ctx, id); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceService.Delete").Int64("invoice_id", id).Msg("error deleting invoice")
		return fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityInvoice, id, "delete", invoice.InvoiceNumber)

	return nil
}

func (s *invoiceService) Duplicate(ctx context.Context, userID, id int64) (models.Invoice, error) {
	original, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Invoice{}, err
	}

	now := s.now().UTC()
	today := models.NewDate(now)

	clone := copyAsDraft(original, now)
	clone.IssueDate = today
	clone.DueDate = today.AddDays(DefaultPaymentTermDays)
	clone.ParentInvoiceID = nil

	created, err := s.invoiceRepository.CreateInvoice(ctx, clone)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceService.Duplicate").Int64("invoice_id", id).Msg("error duplicating invoice")
		return models.Invoice{}, fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityInvoice, created.ID, "duplicate", fmt.Sprintf("from %s", original.InvoiceNumber))

	return created, nil
}

func (s *invoiceService) SetStatus(ctx context.Context, userID, id int64, status models.InvoiceStatus) (models.Invoice, error) {
	if err := validate(ctx, s.validator, models.StatusUpdate{Status: status}); err != nil {
		return models.Invoice{}, err
	}

	invoice, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Invoice{}, err
	}

	now := s.now().UTC()
	invoice.ApplyStatus(status, now)
	invoice.UpdatedAt = now

	updated, err := s.save(ctx, invoice)
	if err != nil {
		return models.Invoice{}, err
	}

	s.audit.Record(ctx, userID, entityInvoice, id, "status", string(status))

	return updated, nil
}

func (s *invoiceService) SpawnRecurring(ctx context.Context, userID, id int64) (models.Invoice, bool, error) {
	original, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.Invoice{}, false, err
	}
	if !original.Recurring.IsRecurring() {
		return models.Invoice{}, false, nil
	}

	now := s.now().UTC()
	issueDate := models.NewDate(now)
	if original.NextRecurringDate != nil && !original.NextRecurringDate.IsZero() {
		issueDate = *original.NextRecurringDate
	}

	child := copyAsDraft(original, now)
	child.IssueDate = issueDate
	child.DueDate = issueDate.AddDays(DefaultPaymentTermDays)
	child.ParentInvoiceID = &original.ID
	child.Recurring = models.RecurrenceNone
	child.NextRecurringDate = nil

	next := original.Recurring.Next(issueDate)
	spawned, err := s.invoiceRepository.SpawnInvoice(ctx, child, original.ID, original.NextRecurringDate, next)
	if err != nil {
		if !errors.Is(err, store.ErrConflict) {
			logger.FromContext(ctx).Err(err).Str("func", "*invoiceService.SpawnRecurring").Int64("invoice_id", id).Msg("error creating recurring invoice")
		}
		return models.Invoice{}, false, fromStoreError(err)
	}

	s.audit.Record(ctx, userID, entityInvoice, spawned.ID, "spawn", fmt.Sprintf("from %s", original.InvoiceNumber))

	return spawned, true, nil
}

func (s *invoiceService) Stats(ctx context.Context, userID int64) (models.Stats, error) {
	invoices, err := s.invoiceRepository.ListInvoices(ctx, userID)
	if err != nil {
		return models.Stats{}, fromStoreError(err)
	}
	return ComputeStats(invoices), nil
}

// attachClient points invoice at the user's client and refreshes the
// snapshot from it.
func (s *invoiceService) attachClient(ctx context.Context, userID int64, invoice *models.Invoice, clientID int64) error {
	client, err := s.clientRepository.GetClient(ctx, clientID)
	if err != nil {
		err = fromStoreError(err)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrValidation, ErrUnknownClient)
		}
		return err
	}
	if client.UserID != userID {
		return fmt.Errorf("%w: %w", ErrValidation, ErrUnknownClient)
	}

	invoice.ClientID = client.ID
	invoice.Client = client.Snapshot()
	return nil
}

func (s *invoiceService) save(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	updated, err := s.invoiceRepository.UpdateInvoice(ctx, invoice)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceService.save").Int64("invoice_id", invoice.ID).Msg("error updating invoice")
		return models.Invoice{}, fromStoreError(err)
	}
	return updated, nil
}

// recalculate refreshes the invoice amounts. Amounts that do not fit are a
// validation failure of the caller's input.
func recalculate(invoice *models.Invoice) error {
	if err := invoice.Recalculate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// copyAsDraft clones invoice as a new draft without id, number, item ids or
// lifecycle timestamps.
func copyAsDraft(invoice models.Invoice, now time.Time) models.Invoice {
	clone := invoice
	clone.ID = 0
	clone.InvoiceNumber = ""
	clone.Status = models.StatusDraft
	clone.SentAt = nil
	clone.PaidAt = nil
	clone.CancelledAt = nil
	clone.CreatedAt = now
	clone.UpdatedAt = now

	clone.Items = make([]models.InvoiceItem, len(invoice.Items))
	for i, item := range invoice.Items {
		item.ID = 0
		clone.Items[i] = item
	}

	return clone
}

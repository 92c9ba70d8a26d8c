// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

// invoiceRepository is the database/sql implementation of
// [InvoiceRepository]. Invoices live in "invoices", their items in
// "invoice_items" ordered by "position", and display numbers come from the
// "invoice_number" row of "sequences".
type invoiceRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewInvoiceRepository(db *DB, logger *logger.Logger) InvoiceRepository {
	logger.Debug().Msg("creating invoice repository")
	return &invoiceRepository{
		db:     db,
		logger: logger,
	}
}

// CreateInvoice bumps the invoice number sequence, inserts the invoice and
// its items in one transaction.
func (r *invoiceRepository) CreateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	invoice.Items = append(make([]models.InvoiceItem, 0, len(invoice.Items)), invoice.Items...)

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		return r.insertInvoice(ctx, tx, &invoice)
	})
	if err != nil {
		return models.Invoice{}, err
	}

	return invoice, nil
}

// SpawnInvoice advances the parent's next recurring date and inserts child
// in one transaction. The parent row is updated only while its date still
// equals from, so of two concurrent spawns for one period the second gets
// ErrConflict.
func (r *invoiceRepository) SpawnInvoice(ctx context.Context, child models.Invoice, parentID int64, from *models.Date, next models.Date) (models.Invoice, error) {
	log := logger.FromContext(ctx)
	child.Items = append(make([]models.InvoiceItem, 0, len(child.Items)), child.Items...)

	current := sq.Eq{"next_recurring_date": nil}
	if from != nil && !from.IsZero() {
		current = sq.Eq{"next_recurring_date": *from}
	}

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := r.db.builder.
			Update("invoices").
			Set("next_recurring_date", next).
			Set("updated_at", child.UpdatedAt).
			Where(sq.And{sq.Eq{"id": parentID}, current}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).Str("func", "*invoiceRepository.SpawnInvoice").Msg("error advancing recurring date")
			return r.db.classify(err, ErrExecutingQuery)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected == 0 {
			return ErrConflict
		}

		return r.insertInvoice(ctx, tx, &child)
	})
	if err != nil {
		return models.Invoice{}, err
	}

	return child, nil
}

// insertInvoice assigns the next display number and stores the invoice
// with its items, filling in the ids.
func (r *invoiceRepository) insertInvoice(ctx context.Context, tx *sql.Tx, invoice *models.Invoice) error {
	log := logger.FromContext(ctx)

	var seq int64
	if err := tx.QueryRowContext(ctx, nextInvoiceNumber).Scan(&seq); err != nil {
		log.Err(err).Str("func", "*invoiceRepository.insertInvoice").Msg("error getting next invoice number")
		return r.db.classify(err, ErrExecutingQuery)
	}
	invoice.InvoiceNumber = models.FormatInvoiceNumber(seq)

	values := invoiceValues(*invoice)
	values["invoice_number"] = invoice.InvoiceNumber
	values["user_id"] = invoice.UserID
	values["created_at"] = invoice.CreatedAt

	query, args, err := r.db.builder.
		Insert("invoices").
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = tx.QueryRowContext(ctx, query, args...).Scan(&invoice.ID); err != nil {
		log.Err(err).Str("func", "*invoiceRepository.insertInvoice").Msg("error inserting invoice")
		return r.db.classify(err, ErrExecutingQuery)
	}

	return r.insertItems(ctx, tx, invoice.ID, invoice.Items)
}

func (r *invoiceRepository) GetInvoice(ctx context.Context, id int64) (models.Invoice, error) {
	query, args, err := r.db.builder.Select(invoiceColumns...).From("invoices").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Invoice{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		err = r.db.classify(err, ErrScanningRow)
		if !errors.Is(err, ErrNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*invoiceRepository.GetInvoice").Msg("error selecting invoice")
		}
		return models.Invoice{}, err
	}

	items, err := r.selectItems(ctx, invoice.ID)
	if err != nil {
		return models.Invoice{}, err
	}
	invoice.Items = items[invoice.ID]
	if invoice.Items == nil {
		invoice.Items = []models.InvoiceItem{}
	}

	return invoice, nil
}

func (r *invoiceRepository) ListInvoices(ctx context.Context, userID int64) ([]models.Invoice, error) {
	query, args, err := r.db.builder.
		Select(invoiceColumns...).
		From("invoices").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceRepository.ListInvoices").Msg("error selecting invoices")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	invoices := make([]models.Invoice, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		invoices = append(invoices, invoice)
		ids = append(ids, invoice.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	if len(ids) == 0 {
		return invoices, nil
	}

	items, err := r.selectItems(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Items = items[invoices[i].ID]
		if invoices[i].Items == nil {
			invoices[i].Items = []models.InvoiceItem{}
		}
	}

	return invoices, nil
}

// UpdateInvoice overwrites the invoice row and replaces all of its items.
func (r *invoiceRepository) UpdateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error) {
	log := logger.FromContext(ctx)

	var updated models.Invoice
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		query, args, err := r.db.builder.
			Update("invoices").
			SetMap(invoiceValues(invoice)).
			Where(sq.Eq{"id": invoice.ID}).
			Suffix("RETURNING " + strings.Join(invoiceColumns, ", ")).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		updated, err = scanInvoice(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			err = r.db.classify(err, ErrExecutingQuery)
			if !errors.Is(err, ErrNotFound) {
				log.Err(err).Str("func", "*invoiceRepository.UpdateInvoice").Msg("error updating invoice")
			}
			return err
		}

		if err = r.deleteItems(ctx, tx, invoice.ID); err != nil {
			return err
		}

		updated.Items = append(make([]models.InvoiceItem, 0, len(invoice.Items)), invoice.Items...)
		return r.insertItems(ctx, tx, invoice.ID, updated.Items)
	})
	if err != nil {
		return models.Invoice{}, err
	}

	return updated, nil
}

func (r *invoiceRepository) DeleteInvoice(ctx context.Context, id int64) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.deleteItems(ctx, tx, id); err != nil {
			return err
		}

		query, args, err := r.db.builder.Delete("invoices").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "*invoiceRepository.DeleteInvoice").Msg("error deleting invoice")
			return r.db.classify(err, ErrExecutingQuery)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if affected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

// insertItems stores items in order and assigns their ids in place.
func (r *invoiceRepository) insertItems(ctx context.Context, tx *sql.Tx, invoiceID int64, items []models.InvoiceItem) error {
	for i := range items {
		query, args, err := r.db.builder.
			Insert("invoice_items").
			Columns("invoice_id", "position", "description", "quantity", "unit_price", "total").
			Values(invoiceID, i, items[i].Description, items[i].Quantity, items[i].UnitPrice, items[i].Total).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if err = tx.QueryRowContext(ctx, query, args...).Scan(&items[i].ID); err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "*invoiceRepository.insertItems").Msg("error inserting invoice item")
			return r.db.classify(err, ErrExecutingQuery)
		}
	}

	return nil
}

func (r *invoiceRepository) deleteItems(ctx context.Context, tx *sql.Tx, invoiceID int64) error {
	query, args, err := r.db.builder.Delete("invoice_items").Where(sq.Eq{"invoice_id": invoiceID}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceRepository.deleteItems").Msg("error deleting invoice items")
		return r.db.classify(err, ErrExecutingQuery)
	}

	return nil
}

// selectItems loads the items of the given invoices grouped by invoice id.
func (r *invoiceRepository) selectItems(ctx context.Context, invoiceIDs ...int64) (map[int64][]models.InvoiceItem, error) {
	query, args, err := r.db.builder.
		Select(invoiceItemColumns...).
		From("invoice_items").
		Where(sq.Eq{"invoice_id": invoiceIDs}).
		OrderBy("invoice_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*invoiceRepository.selectItems").Msg("error selecting invoice items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make(map[int64][]models.InvoiceItem, len(invoiceIDs))
	for rows.Next() {
		invoiceID, item, err := scanInvoiceItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items[invoiceID] = append(items[invoiceID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

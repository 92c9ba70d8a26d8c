// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements persistence for users, sessions, clients,
// products, invoices and audit logs.
//
// Every repository has an in-memory implementation guarded by a single
// mutex and a database/sql implementation shared by PostgreSQL (pgx) and
// SQLite. Sessions may alternatively be kept in Redis.
//
// Repositories do not check ownership: lookups by id return the record
// regardless of its owner and the service layer decides visibility.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-invoicer/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts. Emails are stored lower-cased and
// are unique across all users, active or not.
type UserRepository interface {
	// CreateUser inserts user and returns it with its id assigned.
	// Returns ErrEmailAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail returns the user with the given email, disabled or not.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)

	UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error
	SetActive(ctx context.Context, id int64, active bool, updatedAt time.Time) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// SessionRepository persists bearer sessions keyed by token digest.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	FindSession(ctx context.Context, tokenHash string) (models.Session, error)

	// DeleteSession reports whether a session was removed.
	DeleteSession(ctx context.Context, tokenHash string) (bool, error)

	// DeleteExpiredSessions removes sessions with expires_at <= now and
	// returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type ClientRepository interface {
	CreateClient(ctx context.Context, client models.Client) (models.Client, error)
	GetClient(ctx context.Context, id int64) (models.Client, error)
	ListClients(ctx context.Context, userID int64) ([]models.Client, error)
	UpdateClient(ctx context.Context, client models.Client) (models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	ListProducts(ctx context.Context, userID int64) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// InvoiceRepository persists invoices together with their items.
type InvoiceRepository interface {
	// CreateInvoice assigns the id and the next display number. Numbers are
	// never reused, even after deletion.
	CreateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (models.Invoice, error)

	// ListInvoices returns the user's invoices, newest first.
	ListInvoices(ctx context.Context, userID int64) ([]models.Invoice, error)

	// UpdateInvoice overwrites every column of the invoice and replaces its
	// items.
	UpdateInvoice(ctx context.Context, invoice models.Invoice) (models.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error

	// SpawnInvoice creates child and moves the next recurring date of the
	// parent from from to next, all or nothing. Returns ErrConflict when the
	// parent's date is no longer from.
	SpawnInvoice(ctx context.Context, child models.Invoice, parentID int64, from *models.Date, next models.Date) (models.Invoice, error)
}

type AuditLogRepository interface {
	CreateAuditLog(ctx context.Context, entry models.AuditLog) (models.AuditLog, error)

	// ListAuditLogs returns at most limit entries of the user, newest first.
	ListAuditLogs(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error)
}

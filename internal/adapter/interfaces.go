// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the go-invoicer HTTP API.
//
// The primary abstraction is [ServerAdapter], which hides the REST routes,
// session token handling and error mapping from callers such as the
// command-line client.
//
// Non-2xx responses are mapped by mapHTTPError to the sentinel errors in
// errors.go so that callers can use [errors.Is] (e.g. [ErrNotFound] for 404,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-invoicer/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter is a typed client of the go-invoicer API. Implementations
// keep the session token returned by Register and Login and attach it to
// every authenticated request.
type ServerAdapter interface {
	// SetToken stores the session token used by authenticated requests.
	SetToken(token string)

	// Token returns the stored session token, or "" when none is set.
	Token() string

	// Register creates an account and stores the returned session token.
	Register(ctx context.Context, req models.RegisterRequest) (models.SanitizedUser, error)

	// Login stores the returned session token on success.
	Login(ctx context.Context, req models.LoginRequest) (models.SanitizedUser, error)

	// Logout revokes the current session and forgets the token.
	Logout(ctx context.Context) error

	Me(ctx context.Context) (models.SanitizedUser, error)

	ListInvoices(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (models.Invoice, error)
	CreateInvoice(ctx context.Context, input models.InvoiceInput) (models.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error
	SetInvoiceStatus(ctx context.Context, id int64, status models.InvoiceStatus) (models.Invoice, error)
	DuplicateInvoice(ctx context.Context, id int64) (models.Invoice, error)

	// SpawnRecurring returns spawned == false when the invoice is not
	// recurring.
	SpawnRecurring(ctx context.Context, id int64) (invoice models.Invoice, spawned bool, err error)
	ShareInvoice(ctx context.Context, id int64) (models.ShareLink, error)

	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, client models.Client) (models.Client, error)

	DashboardStats(ctx context.Context) (models.DashboardStats, error)

	// Version does not need a session.
	Version(ctx context.Context) (string, error)
}

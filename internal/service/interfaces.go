package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-invoicer/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// CredentialService owns user accounts and their bcrypt password hashes.
type CredentialService interface {
	// CreateUser hashes the password and persists a new user with role.
	// Returns ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, req models.RegisterRequest, role models.Role) (models.User, error)

	// FindByEmail and FindByID return active users only; disabled accounts
	// are reported as ErrNotFound.
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)

	// VerifyPassword reports whether plaintext matches the bcrypt hash.
	VerifyPassword(plaintext, hash string) bool

	// Authenticate checks an email and password pair. Unknown emails and
	// wrong passwords both yield ErrInvalidCredentials; a correct password
	// of a disabled account yields ErrAccountDisabled.
	Authenticate(ctx context.Context, email, password string) (models.User, error)

	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	SetActive(ctx context.Context, userID int64, active bool) (models.User, error)
	TouchLastLogin(ctx context.Context, userID int64) (time.Time, error)
}

// SessionService issues and checks opaque bearer sessions.
type SessionService interface {
	// Issue creates a session for userID and returns the raw token. Only its
	// digest is persisted.
	Issue(ctx context.Context, userID int64, meta models.ClientMeta) (token string, expiresAt time.Time, err error)

	// Validate returns the owner of token when the session exists, has not
	// expired and the owner is active. It never fails: every problem is
	// reported as ok == false.
	Validate(ctx context.Context, token string) (user models.User, ok bool)

	// Revoke deletes the session and reports whether one was removed.
	Revoke(ctx context.Context, token string) (bool, error)

	// SweepExpired deletes every expired session and returns how many were
	// removed.
	SweepExpired(ctx context.Context) (int64, error)
}

// AuthService orchestrates registration, login and logout on top of
// CredentialService and SessionService.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest, meta models.ClientMeta) (models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest, meta models.ClientMeta) (models.AuthResult, error)

	// Logout revokes token. Revoking an unknown token returns false.
	Logout(ctx context.Context, token string) (bool, error)

	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (models.User, bool)
	CurrentUser(ctx context.Context, token string) (models.SanitizedUser, bool)

	ChangePassword(ctx context.Context, userID int64, req models.ChangePasswordRequest) error
	SetUserActive(ctx context.Context, userID int64, active bool) (models.SanitizedUser, error)
}

// InvoiceService is the invoice lifecycle. Every method is scoped to the
// owner; invoices of other users are reported as ErrNotFound.
type InvoiceService interface {
	Create(ctx context.Context, userID int64, input models.InvoiceInput) (models.Invoice, error)
	Get(ctx context.Context, userID, id int64) (models.Invoice, error)
	List(ctx context.Context, userID int64, filter models.InvoiceFilter) ([]models.Invoice, error)

	// Update merges the non-nil fields of update into the invoice. A non-nil
	// Items replaces all items.
	Update(ctx context.Context, userID, id int64, update models.InvoiceUpdate) (models.Invoice, error)
	Delete(ctx context.Context, userID, id int64) error

	// Duplicate copies the invoice as a new draft issued today and due in
	// 30 days, without lifecycle timestamps.
	Duplicate(ctx context.Context, userID, id int64) (models.Invoice, error)

	// SetStatus applies status. Any transition is allowed; sentAt, paidAt
	// and cancelledAt are stamped only the first time.
	SetStatus(ctx context.Context, userID, id int64, status models.InvoiceStatus) (models.Invoice, error)

	// SpawnRecurring creates the next draft of a recurring invoice and
	// advances the original's next date by one period, both or neither.
	// spawned is false for non-recurring invoices. A concurrent spawn of the
	// same period yields ErrConflict.
	SpawnRecurring(ctx context.Context, userID, id int64) (invoice models.Invoice, spawned bool, err error)

	Stats(ctx context.Context, userID int64) (models.Stats, error)
}

type ClientService interface {
	Create(ctx context.Context, userID int64, client models.Client) (models.Client, error)
	Get(ctx context.Context, userID, id int64) (models.Client, error)
	List(ctx context.Context, userID int64) ([]models.Client, error)
	Update(ctx context.Context, userID, id int64, client models.Client) (models.Client, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ProductService interface {
	Create(ctx context.Context, userID int64, product models.Product) (models.Product, error)
	Get(ctx context.Context, userID, id int64) (models.Product, error)
	List(ctx context.Context, userID int64) ([]models.Product, error)
	Update(ctx context.Context, userID, id int64, product models.Product) (models.Product, error)
	Delete(ctx context.Context, userID, id int64) error
}

type DashboardService interface {
	Stats(ctx context.Context, userID int64) (models.DashboardStats, error)
	Charts(ctx context.Context, userID int64) (models.DashboardCharts, error)
}

// AuditService keeps the append-only trail of user mutations.
type AuditService interface {
	// Record stores an entry. Failures are logged and never returned.
	Record(ctx context.Context, userID int64, entity string, entityID int64, action, details string)
	List(ctx context.Context, userID int64, limit int) ([]models.AuditLog, error)
}

// ShareService signs read-only links to single invoices.
type ShareService interface {
	Issue(ctx context.Context, userID, invoiceID int64) (models.ShareLink, error)
	Resolve(ctx context.Context, token string) (models.Invoice, error)
}

// AppInfoService describes the running build.
type AppInfoService interface {
	GetVersion(ctx context.Context) models.VersionResponse
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-invoicer/models"
)

// Column lists shared by SELECT and RETURNING clauses. The scan helpers below
// must read the columns in exactly this order.
var (
	userColumns = []string{
		"id", "name", "email", "password_hash", "role", "is_active", "email_verified",
		"phone", "company", "created_at", "updated_at", "last_login_at",
	}

	sessionColumns = []string{"token_hash", "user_id", "expires_at", "created_at", "ip_address", "user_agent"}

	clientColumns = []string{
		"id", "user_id", "name", "email", "phone", "company", "address",
		"city", "state", "postal_code", "country", "created_at", "updated_at",
	}

	productColumns = []string{"id", "user_id", "name", "description", "unit_price", "created_at", "updated_at"}

	invoiceColumns = []string{
		"id", "invoice_number", "user_id", "client_id",
		"client_name", "client_email", "client_company", "client_address",
		"issue_date", "due_date", "status",
		"subtotal", "tax_rate", "tax_amount", "discount", "discount_amount", "total",
		"notes", "terms", "recurring", "next_recurring_date", "parent_invoice_id",
		"created_at", "updated_at", "sent_at", "paid_at", "cancelled_at",
	}

	invoiceItemColumns = []string{"id", "invoice_id", "description", "quantity", "unit_price", "total"}

	auditLogColumns = []string{"id", "user_id", "entity", "entity_id", "action", "details", "created_at"}
)

const nextInvoiceNumber = `UPDATE sequences SET value = value + 1 WHERE name = 'invoice_number' RETURNING value`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// timestampLayouts are the text encodings of TIMESTAMP values. go-sqlite3
// writes the first one and only converts it back to time.Time for columns
// with a declared type, which RETURNING results do not have.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp is a scan target for a NOT NULL TIMESTAMP column.
type timestamp struct{ t *time.Time }

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*ts.t = time.Time{}
		return nil
	case time.Time:
		*ts.t = v
		return nil
	case []byte:
		return ts.parse(string(v))
	case string:
		return ts.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp source %T", src)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp value %q", s)
}

// nullTimestamp is a scan target for a nullable TIMESTAMP column.
type nullTimestamp struct{ t **time.Time }

func (ts nullTimestamp) Scan(src any) error {
	if src == nil {
		*ts.t = nil
		return nil
	}

	var t time.Time
	if err := (timestamp{&t}).Scan(src); err != nil {
		return err
	}
	*ts.t = &t
	return nil
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.EmailVerified,
		&u.Phone, &u.Company, timestamp{&u.CreatedAt}, timestamp{&u.UpdatedAt}, nullTimestamp{&u.LastLoginAt})
	return u, err
}

func scanSession(row rowScanner) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.TokenHash, &s.UserID, timestamp{&s.ExpiresAt}, timestamp{&s.CreatedAt}, &s.IPAddress, &s.UserAgent)
	return s, err
}

func scanClient(row rowScanner) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address,
		&c.City, &c.State, &c.PostalCode, &c.Country, timestamp{&c.CreatedAt}, timestamp{&c.UpdatedAt})
	return c, err
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.UnitPrice, timestamp{&p.CreatedAt}, timestamp{&p.UpdatedAt})
	return p, err
}

func scanInvoice(row rowScanner) (models.Invoice, error) {
	var (
		inv      models.Invoice
		clientID sql.NullInt64
	)
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.UserID, &clientID,
		&inv.Client.Name, &inv.Client.Email, &inv.Client.Company, &inv.Client.Address,
		&inv.IssueDate, &inv.DueDate, &inv.Status,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Discount, &inv.DiscountAmount, &inv.Total,
		&inv.Notes, &inv.Terms, &inv.Recurring, &inv.NextRecurringDate, &inv.ParentInvoiceID,
		timestamp{&inv.CreatedAt}, timestamp{&inv.UpdatedAt},
		nullTimestamp{&inv.SentAt}, nullTimestamp{&inv.PaidAt}, nullTimestamp{&inv.CancelledAt})
	inv.ClientID = clientID.Int64
	return inv, err
}

// scanInvoiceItem also returns the invoice the item belongs to.
func scanInvoiceItem(row rowScanner) (int64, models.InvoiceItem, error) {
	var (
		invoiceID int64
		item      models.InvoiceItem
	)
	err := row.Scan(&item.ID, &invoiceID, &item.Description, &item.Quantity, &item.UnitPrice, &item.Total)
	return invoiceID, item, err
}

func scanAuditLog(row rowScanner) (models.AuditLog, error) {
	var l models.AuditLog
	err := row.Scan(&l.ID, &l.UserID, &l.Entity, &l.EntityID, &l.Action, &l.Details, timestamp{&l.CreatedAt})
	return l, err
}

// invoiceValues returns the column/value map written by insert and update.
func invoiceValues(inv models.Invoice) map[string]any {
	return map[string]any{
		"client_id":           nullID(inv.ClientID),
		"client_name":         inv.Client.Name,
		"client_email":        inv.Client.Email,
		"client_company":      inv.Client.Company,
		"client_address":      inv.Client.Address,
		"issue_date":          inv.IssueDate,
		"due_date":            inv.DueDate,
		"status":              inv.Status,
		"subtotal":            inv.Subtotal,
		"tax_rate":            inv.TaxRate,
		"tax_amount":          inv.TaxAmount,
		"discount":            inv.Discount,
		"discount_amount":     inv.DiscountAmount,
		"total":               inv.Total,
		"notes":               inv.Notes,
		"terms":               inv.Terms,
		"recurring":           inv.Recurring,
		"next_recurring_date": inv.NextRecurringDate,
		"parent_invoice_id":   inv.ParentInvoiceID,
		"updated_at":          inv.UpdatedAt,
		"sent_at":             inv.SentAt,
		"paid_at":             inv.PaidAt,
		"cancelled_at":        inv.CancelledAt,
	}
}

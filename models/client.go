package models

import "time"

// Client is a customer of a user. OutstandingBalance is derived on read from
// the user's sent and overdue invoices and is never persisted.
type Client struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	Name               string    `json:"name" validate:"required,max=255"`
	Email              string    `json:"email,omitempty" validate:"omitempty,max=255,emailshape"`
	Phone              string    `json:"phone,omitempty" validate:"max=50"`
	Company            string    `json:"company,omitempty" validate:"max=255"`
	Address            string    `json:"address,omitempty"`
	City               string    `json:"city,omitempty"`
	State              string    `json:"state,omitempty"`
	PostalCode         string    `json:"postalCode,omitempty"`
	Country            string    `json:"country,omitempty"`
	OutstandingBalance Money     `json:"outstandingBalance"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Snapshot captures the fields an invoice keeps about its client.
func (c Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		Name:    c.Name,
		Email:   c.Email,
		Company: c.Company,
		Address: c.Address,
	}
}

// Product is a reusable line item in a user's catalog.
type Product struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	UnitPrice   Money     `json:"unitPrice" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AuditLog is an append-only record of a mutation made by a user.
type AuditLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Entity    string    `json:"entity"`
	EntityID  int64     `json:"entityId"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

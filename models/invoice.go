package models

import (
	"fmt"
	"time"
)

// InvoiceStatus is the lifecycle state of an invoice. Any status may be set
// from any other status.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every status in reporting order.
var InvoiceStatuses = []InvoiceStatus{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled}

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	for _, known := range InvoiceStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Recurrence is the period at which a recurring invoice spawns a copy.
type Recurrence string

const (
	RecurrenceNone      Recurrence = "none"
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

// Next returns the date one period after d. It returns d unchanged for
// RecurrenceNone.
func (r Recurrence) Next(d Date) Date {
	switch r {
	case RecurrenceWeekly:
		return d.AddDays(7)
	case RecurrenceMonthly:
		return d.AddMonths(1)
	case RecurrenceQuarterly:
		return d.AddMonths(3)
	case RecurrenceYearly:
		return d.AddMonths(12)
	default:
		return d
	}
}

// IsRecurring reports whether r spawns copies.
func (r Recurrence) IsRecurring() bool {
	return r != "" && r != RecurrenceNone
}

// InvoiceNumberFormat renders the sequential display number.
const InvoiceNumberFormat = "INV-%03d"

// FormatInvoiceNumber renders seq as a display number.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf(InvoiceNumberFormat, seq)
}

// ClientSnapshot is the copy of client details stored on an invoice.
type ClientSnapshot struct {
	Name    string `json:"name" validate:"max=255"`
	Email   string `json:"email,omitempty" validate:"max=255"`
	Company string `json:"company,omitempty" validate:"max=255"`
	Address string `json:"address,omitempty"`
}

// InvoiceItem is a line of an invoice. Total is always Quantity*UnitPrice.
type InvoiceItem struct {
	ID          int64  `json:"id"`
	Description string `json:"description" validate:"required,max=500"`
	Quantity    int64  `json:"quantity" validate:"gte=1,lte=1000000"`
	UnitPrice   Money  `json:"unitPrice" validate:"gte=0,lte=100000000000"`
	Total       Money  `json:"total"`
}

// Invoice is a bill issued by a user to a client.
//
// Subtotal, TaxAmount, DiscountAmount and Total are derived from Items,
// TaxRate and Discount by Recalculate and are never taken from input.
type Invoice struct {
	ID                int64          `json:"id"`
	InvoiceNumber     string         `json:"invoiceNumber"`
	UserID            int64          `json:"userId"`
	ClientID          int64          `json:"clientId,omitempty"`
	Client            ClientSnapshot `json:"client"`
	IssueDate         Date           `json:"issueDate"`
	DueDate           Date           `json:"dueDate"`
	Status            InvoiceStatus  `json:"status"`
	Items             []InvoiceItem  `json:"items"`
	Subtotal          Money          `json:"subtotal"`
	TaxRate           Percent        `json:"taxRate"`
	TaxAmount         Money          `json:"taxAmount"`
	Discount          Percent        `json:"discount"`
	DiscountAmount    Money          `json:"discountAmount"`
	Total             Money          `json:"total"`
	Notes             string         `json:"notes,omitempty"`
	Terms             string         `json:"terms,omitempty"`
	Recurring         Recurrence     `json:"recurring"`
	NextRecurringDate *Date          `json:"nextRecurringDate,omitempty"`
	ParentInvoiceID   *int64         `json:"parentInvoiceId,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	SentAt            *time.Time     `json:"sentAt,omitempty"`
	PaidAt            *time.Time     `json:"paidAt,omitempty"`
	CancelledAt       *time.Time     `json:"cancelledAt,omitempty"`
}

// Recalculate recomputes item totals and the invoice amounts:
//
//	subtotal = Σ quantity × unitPrice
//	taxAmount = subtotal × taxRate
//	discountAmount = subtotal × discount
//	total = subtotal + taxAmount − discountAmount
//
// It returns ErrAmountOverflow, leaving the amounts untouched, when any of
// them does not fit in int64.
func (inv *Invoice) Recalculate() error {
	totals := make([]Money, len(inv.Items))
	var subtotal Money
	for i, item := range inv.Items {
		total, err := item.UnitPrice.Mul(item.Quantity)
		if err != nil {
			return err
		}
		if subtotal, err = subtotal.Add(total); err != nil {
			return err
		}
		totals[i] = total
	}

	tax := inv.TaxRate.Of(subtotal)
	discount := inv.Discount.Of(subtotal)
	total, err := subtotal.Add(tax)
	if err != nil {
		return err
	}
	if total, err = total.Add(-discount); err != nil {
		return err
	}

	for i := range inv.Items {
		inv.Items[i].Total = totals[i]
	}
	inv.Subtotal = subtotal
	inv.TaxAmount = tax
	inv.DiscountAmount = discount
	inv.Total = total
	return nil
}

// ApplyStatus sets the status and stamps the matching lifecycle timestamp the
// first time the invoice enters sent, paid or cancelled. Re-entering a
// status keeps the original stamp.
func (inv *Invoice) ApplyStatus(status InvoiceStatus, now time.Time) {
	inv.Status = status

	stamp := func(dst **time.Time) {
		if *dst == nil {
			t := now
			*dst = &t
		}
	}

	switch status {
	case StatusSent:
		stamp(&inv.SentAt)
	case StatusPaid:
		stamp(&inv.PaidAt)
	case StatusCancelled:
		stamp(&inv.CancelledAt)
	}
}

// InvoiceInput is the payload of POST /invoices.
type InvoiceInput struct {
	ClientID          int64           `json:"clientId" validate:"gte=0"`
	Client            *ClientSnapshot `json:"client,omitempty"`
	IssueDate         *Date           `json:"issueDate,omitempty"`
	DueDate           *Date           `json:"dueDate,omitempty"`
	Status            InvoiceStatus   `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	Items             []InvoiceItem   `json:"items" validate:"dive"`
	TaxRate           Percent         `json:"taxRate" validate:"gte=0,lte=10000"`
	Discount          Percent         `json:"discount" validate:"gte=0,lte=10000"`
	Notes             string          `json:"notes,omitempty" validate:"max=5000"`
	Terms             string          `json:"terms,omitempty" validate:"max=5000"`
	Recurring         Recurrence      `json:"recurring,omitempty" validate:"omitempty,oneof=none weekly monthly quarterly yearly"`
	NextRecurringDate *Date           `json:"nextRecurringDate,omitempty"`
}

// InvoiceUpdate is the payload of PUT /invoices/{id}. Nil fields are left
// untouched; a non-nil Items replaces all items.
type InvoiceUpdate struct {
	ClientID          *int64          `json:"clientId,omitempty" validate:"omitempty,gte=0"`
	Client            *ClientSnapshot `json:"client,omitempty"`
	IssueDate         *Date           `json:"issueDate,omitempty"`
	DueDate           *Date           `json:"dueDate,omitempty"`
	Status            *InvoiceStatus  `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	Items             []InvoiceItem   `json:"items,omitempty" validate:"omitempty,dive"`
	TaxRate           *Percent        `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Discount          *Percent        `json:"discount,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Notes             *string         `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Terms             *string         `json:"terms,omitempty" validate:"omitempty,max=5000"`
	Recurring         *Recurrence     `json:"recurring,omitempty" validate:"omitempty,oneof=none weekly monthly quarterly yearly"`
	NextRecurringDate *Date           `json:"nextRecurringDate,omitempty"`
}

// StatusUpdate is the payload of PUT /invoices/{id}/status.
type StatusUpdate struct {
	Status InvoiceStatus `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
}

// InvoiceFilter narrows a listing. Zero fields do not filter.
type InvoiceFilter struct {
	Status   InvoiceStatus
	DateFrom *Date
	DateTo   *Date
	ClientID int64
	Search   string
}

// ShareLink is a signed read-only link to a single invoice.
type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

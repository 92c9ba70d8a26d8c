package service

import (
	"strings"
	"time"

	"github.com/MKhiriev/go-invoicer/models"
)

// InvoicePredicate selects invoices. Predicates compose with FilterInvoices.
type InvoicePredicate func(models.Invoice) bool

// WithStatus keeps invoices in status.
func WithStatus(status models.InvoiceStatus) InvoicePredicate {
	return func(inv models.Invoice) bool {
		return inv.Status == status
	}
}

// IssuedFrom keeps invoices issued on or after from.
func IssuedFrom(from models.Date) InvoicePredicate {
	return func(inv models.Invoice) bool {
		return !inv.IssueDate.Before(from.Time)
	}
}

// IssuedTo keeps invoices issued on or before to.
func IssuedTo(to models.Date) InvoicePredicate {
	return func(inv models.Invoice) bool {
		return !inv.IssueDate.After(to.Time)
	}
}

// ForClient keeps invoices referencing clientID.
func ForClient(clientID int64) InvoicePredicate {
	return func(inv models.Invoice) bool {
		return inv.ClientID == clientID
	}
}

// Matching keeps invoices whose number, client name or client company
// contains text, case-insensitively.
func Matching(text string) InvoicePredicate {
	needle := strings.ToLower(strings.TrimSpace(text))
	return func(inv models.Invoice) bool {
		for _, haystack := range []string{inv.InvoiceNumber, inv.Client.Name, inv.Client.Company} {
			if strings.Contains(strings.ToLower(haystack), needle) {
				return true
			}
		}
		return false
	}
}

// Predicates turns the non-zero fields of filter into predicates.
func Predicates(filter models.InvoiceFilter) []InvoicePredicate {
	var preds []InvoicePredicate
	if filter.Status != "" {
		preds = append(preds, WithStatus(filter.Status))
	}
	if filter.DateFrom != nil {
		preds = append(preds, IssuedFrom(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		preds = append(preds, IssuedTo(*filter.DateTo))
	}
	if filter.ClientID != 0 {
		preds = append(preds, ForClient(filter.ClientID))
	}
	if strings.TrimSpace(filter.Search) != "" {
		preds = append(preds, Matching(filter.Search))
	}
	return preds
}

// FilterInvoices returns the invoices accepted by every predicate, keeping
// their order. The input slice is not modified.
func FilterInvoices(invoices []models.Invoice, preds ...InvoicePredicate) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
next:
	for _, inv := range invoices {
		for _, pred := range preds {
			if !pred(inv) {
				continue next
			}
		}
		out = append(out, inv)
	}
	return out
}

// ComputeStats aggregates invoices in a single pass. Overdue amounts are
// part of PendingAmount and never of TotalRevenue.
func ComputeStats(invoices []models.Invoice) models.Stats {
	var stats models.Stats
	for _, inv := range invoices {
		stats.Counts.Add(inv.Status)

		switch inv.Status {
		case models.StatusPaid:
			stats.TotalRevenue += inv.Total
		case models.StatusSent:
			stats.PendingAmount += inv.Total
		case models.StatusOverdue:
			stats.PendingAmount += inv.Total
			stats.OverdueAmount += inv.Total
		}
	}
	return stats
}

// monthStart returns midnight UTC of the first day of t's month.
func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

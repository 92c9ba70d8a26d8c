package models

// InvoiceCounts holds the number of invoices per status.
type InvoiceCounts struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Sent      int `json:"sent"`
	Paid      int `json:"paid"`
	Overdue   int `json:"overdue"`
	Cancelled int `json:"cancelled"`
}

// Add counts one invoice in status s.
func (c *InvoiceCounts) Add(s InvoiceStatus) {
	c.Total++
	switch s {
	case StatusDraft:
		c.Draft++
	case StatusSent:
		c.Sent++
	case StatusPaid:
		c.Paid++
	case StatusOverdue:
		c.Overdue++
	case StatusCancelled:
		c.Cancelled++
	}
}

// Of returns the count for s.
func (c InvoiceCounts) Of(s InvoiceStatus) int {
	switch s {
	case StatusDraft:
		return c.Draft
	case StatusSent:
		return c.Sent
	case StatusPaid:
		return c.Paid
	case StatusOverdue:
		return c.Overdue
	case StatusCancelled:
		return c.Cancelled
	}
	return 0
}

// Stats aggregates a user's invoices.
//
// TotalRevenue sums paid invoices, PendingAmount sums sent and overdue ones and
// OverdueAmount is the overdue part of PendingAmount.
type Stats struct {
	Counts        InvoiceCounts `json:"counts"`
	TotalRevenue  Money         `json:"totalRevenue"`
	PendingAmount Money         `json:"pendingAmount"`
	OverdueAmount Money         `json:"overdueAmount"`
}

// RevenueSummary is the revenue block of the dashboard.
type RevenueSummary struct {
	Total     Money `json:"total"`
	ThisMonth Money `json:"thisMonth"`
	Pending   Money `json:"pending"`
}

// ClientSummary is the clients block of the dashboard.
type ClientSummary struct {
	Total int `json:"total"`
}

// DashboardStats is the response of GET /dashboard/stats.
type DashboardStats struct {
	Revenue  RevenueSummary `json:"revenue"`
	Invoices InvoiceCounts  `json:"invoices"`
	Clients  ClientSummary  `json:"clients"`
}

// MonthlyRevenue is one bar of the revenue chart.
type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue Money  `json:"revenue"`
}

// StatusShare is one slice of the status distribution chart.
type StatusShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DashboardCharts is the response of GET /dashboard/charts.
type DashboardCharts struct {
	Revenue            []MonthlyRevenue `json:"revenue"`
	StatusDistribution []StatusShare    `json:"statusDistribution"`
}

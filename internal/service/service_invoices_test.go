// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/mock"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/internal/validators"
	"github.com/MKhiriev/go-invoicer/models"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, s string) *models.Date {
	d := date(t, s)
	return &d
}

func ptr[T any](v T) *T { return &v }

// designInvoice is two hours of design work at 100.00 with 13% tax.
func designInvoice() models.InvoiceInput {
	return models.InvoiceInput{
		Client:  &models.ClientSnapshot{Name: "Acme"},
		Items:   []models.InvoiceItem{{Description: "design", Quantity: 2, UnitPrice: 10000}},
		TaxRate: 1300,
	}
}

// ─────────────────────────────────────────────
// Create / Get
// ─────────────────────────────────────────────

func TestInvoiceService_Create_Defaults(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	inv, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	assert.Equal(t, "INV-001", inv.InvoiceNumber)
	assert.Equal(t, models.StatusDraft, inv.Status)
	assert.Equal(t, models.RecurrenceNone, inv.Recurring)
	assert.Equal(t, "2026-03-15", inv.IssueDate.String())
	assert.Equal(t, "2026-04-14", inv.DueDate.String())
	assert.Equal(t, models.Money(20000), inv.Subtotal)
	assert.Equal(t, models.Money(2600), inv.TaxAmount)
	assert.Equal(t, models.Money(22600), inv.Total)
	assert.Nil(t, inv.SentAt)
}

func TestInvoiceService_RoundTripAndPaidStamp(t *testing.T) {
	services, clock := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	created, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	got, err := svc.Get(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(20000), got.Subtotal)
	assert.Equal(t, models.Money(2600), got.TaxAmount)
	assert.Equal(t, models.Money(22600), got.Total)

	firstPaid := clock.Now()
	paid, err := svc.SetStatus(ctx, 1, created.ID, models.StatusPaid)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, firstPaid, *paid.PaidAt)

	clock.Advance(24 * time.Hour)
	paid, err = svc.SetStatus(ctx, 1, created.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, firstPaid, *paid.PaidAt)
}

func TestInvoiceService_Create_WithStatusStampsIt(t *testing.T) {
	services, _ := newTestServices(t)

	input := designInvoice()
	input.Status = models.StatusSent

	inv, err := services.InvoiceService.Create(context.Background(), 1, input)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSent, inv.Status)
	assert.NotNil(t, inv.SentAt)
}

func TestInvoiceService_Create_Validation(t *testing.T) {
	services, _ := newTestServices(t)

	tests := []struct {
		name  string
		input models.InvoiceInput
	}{
		{name: "zero quantity", input: models.InvoiceInput{Items: []models.InvoiceItem{{Description: "x", Quantity: 0, UnitPrice: 1}}}},
		{name: "missing description", input: models.InvoiceInput{Items: []models.InvoiceItem{{Quantity: 1, UnitPrice: 1}}}},
		{name: "negative price", input: models.InvoiceInput{Items: []models.InvoiceItem{{Description: "x", Quantity: 1, UnitPrice: -1}}}},
		{name: "unknown status", input: models.InvoiceInput{Status: "archived"}},
		{name: "tax over 100%", input: models.InvoiceInput{TaxRate: 10001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.InvoiceService.Create(context.Background(), 1, tt.input)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestInvoiceService_Create_ClientSnapshot(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	client, err := services.ClientService.Create(ctx, 1, models.Client{Name: "Globex", Email: "ap@globex.io", Company: "Globex Corp"})
	require.NoError(t, err)

	input := designInvoice()
	input.Client = nil
	input.ClientID = client.ID

	inv, err := services.InvoiceService.Create(ctx, 1, input)
	require.NoError(t, err)
	assert.Equal(t, client.ID, inv.ClientID)
	assert.Equal(t, "Globex", inv.Client.Name)
	assert.Equal(t, "Globex Corp", inv.Client.Company)

	// another user's client is unknown
	input.ClientID = client.ID
	_, err = services.InvoiceService.Create(ctx, 2, input)
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, ErrUnknownClient)

	input.ClientID = 999
	_, err = services.InvoiceService.Create(ctx, 1, input)
	require.ErrorIs(t, err, ErrUnknownClient)
}

func TestInvoiceService_OtherOwnerIsNotFound(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	inv, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, inv.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SetStatus(ctx, 2, inv.ID, models.StatusPaid)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, 2, inv.ID), ErrNotFound)
	_, err = svc.Duplicate(ctx, 2, inv.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, 1, inv.ID)
	require.NoError(t, err)
}

// ─────────────────────────────────────────────
// Update / Delete
// ─────────────────────────────────────────────

func TestInvoiceService_Update_MergesAndRecalculates(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	inv, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, inv.ID, models.InvoiceUpdate{
		Items:    []models.InvoiceItem{{Description: "hosting", Quantity: 1, UnitPrice: 5000}},
		Discount: ptr(models.Percent(1000)),
		Notes:    ptr("thanks"),
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "hosting", updated.Items[0].Description)
	assert.Equal(t, models.Money(5000), updated.Subtotal)
	assert.Equal(t, models.Money(650), updated.TaxAmount)
	assert.Equal(t, models.Money(500), updated.DiscountAmount)
	assert.Equal(t, models.Money(5150), updated.Total)
	assert.Equal(t, "thanks", updated.Notes)
	// untouched fields survive
	assert.Equal(t, "Acme", updated.Client.Name)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, models.Percent(1300), updated.TaxRate)
}

func TestInvoiceService_Update_WithoutItemsKeepsThem(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	inv, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	updated, err := services.InvoiceService.Update(ctx, 1, inv.ID, models.InvoiceUpdate{Status: ptr(models.StatusSent)})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, models.StatusSent, updated.Status)
	assert.NotNil(t, updated.SentAt)
}

func TestInvoiceService_DeletedNumberIsNotReused(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	first, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, second.ID))

	third, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	assert.Equal(t, "INV-001", first.InvoiceNumber)
	assert.Equal(t, "INV-002", second.InvoiceNumber)
	assert.Equal(t, "INV-003", third.InvoiceNumber)

	_, err = svc.Get(ctx, 1, second.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

// ─────────────────────────────────────────────
// Duplicate / SpawnRecurring
// ─────────────────────────────────────────────

func TestInvoiceService_DuplicatePaidInvoice(t *testing.T) {
	services, clock := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	input := designInvoice()
	input.IssueDate = datePtr(t, "2026-01-05")
	original, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, 1, original.ID, models.StatusSent)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, 1, original.ID, models.StatusPaid)
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)
	dup, err := svc.Duplicate(ctx, 1, original.ID)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, dup.ID)
	assert.Equal(t, "INV-002", dup.InvoiceNumber)
	assert.Equal(t, models.StatusDraft, dup.Status)
	assert.Nil(t, dup.SentAt)
	assert.Nil(t, dup.PaidAt)
	assert.Nil(t, dup.CancelledAt)
	assert.Equal(t, "2026-03-17", dup.IssueDate.String())
	assert.Equal(t, "2026-04-16", dup.DueDate.String())
	assert.Equal(t, original.Total, dup.Total)
	require.Len(t, dup.Items, 1)
	assert.NotEqual(t, original.Items[0].ID, dup.Items[0].ID)

	stillPaid, err := svc.Get(ctx, 1, original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, stillPaid.Status)
	assert.NotNil(t, stillPaid.PaidAt)
}

func TestInvoiceService_SpawnRecurring(t *testing.T) {
	tests := []struct {
		name      string
		recurring models.Recurrence
		next      string
		wantNext  string
	}{
		{name: "weekly", recurring: models.RecurrenceWeekly, next: "2026-03-20", wantNext: "2026-03-27"},
		{name: "monthly clamps", recurring: models.RecurrenceMonthly, next: "2026-01-31", wantNext: "2026-02-28"},
		{name: "quarterly", recurring: models.RecurrenceQuarterly, next: "2026-03-31", wantNext: "2026-06-30"},
		{name: "yearly", recurring: models.RecurrenceYearly, next: "2026-04-01", wantNext: "2027-04-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services, _ := newTestServices(t)
			ctx := context.Background()
			svc := services.InvoiceService

			input := designInvoice()
			input.Recurring = tt.recurring
			input.NextRecurringDate = datePtr(t, tt.next)
			original, err := svc.Create(ctx, 1, input)
			require.NoError(t, err)

			child, spawned, err := svc.SpawnRecurring(ctx, 1, original.ID)
			require.NoError(t, err)
			require.True(t, spawned)

			assert.Equal(t, models.StatusDraft, child.Status)
			assert.Equal(t, tt.next, child.IssueDate.String())
			assert.Equal(t, date(t, tt.next).AddDays(DefaultPaymentTermDays), child.DueDate)
			require.NotNil(t, child.ParentInvoiceID)
			assert.Equal(t, original.ID, *child.ParentInvoiceID)
			assert.Equal(t, models.RecurrenceNone, child.Recurring)
			assert.Equal(t, original.Total, child.Total)

			advanced, err := svc.Get(ctx, 1, original.ID)
			require.NoError(t, err)
			require.NotNil(t, advanced.NextRecurringDate)
			assert.Equal(t, tt.wantNext, advanced.NextRecurringDate.String())
		})
	}
}

func TestInvoiceService_SpawnRecurring_WithoutNextDateUsesToday(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	input := designInvoice()
	input.Recurring = models.RecurrenceMonthly
	original, err := services.InvoiceService.Create(ctx, 1, input)
	require.NoError(t, err)

	child, spawned, err := services.InvoiceService.SpawnRecurring(ctx, 1, original.ID)
	require.NoError(t, err)
	require.True(t, spawned)
	assert.Equal(t, "2026-03-15", child.IssueDate.String())

	advanced, err := services.InvoiceService.Get(ctx, 1, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-15", advanced.NextRecurringDate.String())
}

func TestInvoiceService_SpawnRecurring_NotRecurring(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	original, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	_, spawned, err := services.InvoiceService.SpawnRecurring(ctx, 1, original.ID)
	require.NoError(t, err)
	assert.False(t, spawned)

	list, err := services.InvoiceService.List(ctx, 1, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ─────────────────────────────────────────────
// List / Stats
// ─────────────────────────────────────────────

func TestInvoiceService_ListFilters(t *testing.T) {
	services, clock := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	mk := func(name, issue string, status models.InvoiceStatus) models.Invoice {
		clock.Advance(time.Minute)
		input := designInvoice()
		input.Client = &models.ClientSnapshot{Name: name}
		input.IssueDate = datePtr(t, issue)
		input.Status = status
		inv, err := svc.Create(ctx, 1, input)
		require.NoError(t, err)
		return inv
	}
	a := mk("Acme", "2026-01-10", models.StatusPaid)
	b := mk("Globex", "2026-02-10", models.StatusSent)
	c := mk("Initech", "2026-03-10", models.StatusSent)

	all, err := svc.List(ctx, 1, models.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	sent, err := svc.List(ctx, 1, models.InvoiceFilter{Status: models.StatusSent, DateFrom: datePtr(t, "2026-03-01")})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, c.ID, sent[0].ID)

	search, err := svc.List(ctx, 1, models.InvoiceFilter{Search: "glob"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, b.ID, search[0].ID)

	other, err := svc.List(ctx, 2, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInvoiceService_StatsConsistency(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	for _, status := range []models.InvoiceStatus{
		models.StatusDraft, models.StatusSent, models.StatusPaid,
		models.StatusPaid, models.StatusOverdue, models.StatusCancelled,
	} {
		input := designInvoice()
		input.Status = status
		_, err := svc.Create(ctx, 1, input)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)

	c := stats.Counts
	assert.Equal(t, 6, c.Total)
	assert.Equal(t, c.Total, c.Draft+c.Sent+c.Paid+c.Overdue+c.Cancelled)
	assert.Equal(t, models.Money(2*22600), stats.TotalRevenue)
	assert.Equal(t, models.Money(2*22600), stats.PendingAmount)
	assert.Equal(t, models.Money(22600), stats.OverdueAmount)
	assert.LessOrEqual(t, stats.OverdueAmount, stats.PendingAmount)
}

// ─────────────────────────────────────────────
// Collaborators
// ─────────────────────────────────────────────

func TestInvoiceService_Create_RecordsAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoices := mock.NewMockInvoiceRepository(ctrl)
	clients := mock.NewMockClientRepository(ctrl)
	audit := mock.NewMockAuditService(ctrl)

	invoices.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv models.Invoice) (models.Invoice, error) {
			assert.Equal(t, models.Money(22600), inv.Total)
			inv.ID = 11
			inv.InvoiceNumber = "INV-011"
			return inv, nil
		})
	audit.EXPECT().Record(gomock.Any(), int64(5), "invoice", int64(11), "create", "INV-011")

	svc := NewInvoiceService(invoices, clients, audit, validators.NewStructValidator(), logger.Nop())
	inv, err := svc.Create(context.Background(), 5, designInvoice())
	require.NoError(t, err)
	assert.Equal(t, int64(11), inv.ID)
}

func TestInvoiceService_Create_StorageErrorIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoices := mock.NewMockInvoiceRepository(ctrl)
	audit := mock.NewMockAuditService(ctrl)

	invoices.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).
		Return(models.Invoice{}, store.ErrCommitingTransaction)

	svc := NewInvoiceService(invoices, mock.NewMockClientRepository(ctrl), audit, validators.NewStructValidator(), logger.Nop())
	_, err := svc.Create(context.Background(), 5, designInvoice())
	require.ErrorIs(t, err, ErrInternal)
}

// ─────────────────────────────────────────────
// Amount bounds
// ─────────────────────────────────────────────

func TestInvoiceService_Create_ItemOutOfRange(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	input := designInvoice()
	input.Items = []models.InvoiceItem{{Description: "bulk", Quantity: 1_000_000_000_000, UnitPrice: 100_000_000}}

	_, err := services.InvoiceService.Create(ctx, 1, input)
	require.ErrorIs(t, err, ErrValidation)

	list, err := services.InvoiceService.List(ctx, 1, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvoiceService_Update_TotalOutOfRange(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	original, err := svc.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	// every item is within bounds, their sum is not
	items := make([]models.InvoiceItem, 100)
	for i := range items {
		items[i] = models.InvoiceItem{Description: "max", Quantity: 1_000_000, UnitPrice: 100_000_000_000}
	}

	_, err = svc.Update(ctx, 1, original.ID, models.InvoiceUpdate{Items: items})
	require.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, models.ErrAmountOverflow)

	stored, err := svc.Get(ctx, 1, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Total, stored.Total)
	assert.Len(t, stored.Items, 1)
}

// ─────────────────────────────────────────────
// Ownership and conflicts
// ─────────────────────────────────────────────

func TestInvoiceService_Create_UnknownOwner(t *testing.T) {
	services, _ := newTestServices(t)

	_, err := services.InvoiceService.Create(context.Background(), 99, designInvoice())
	require.ErrorIs(t, err, ErrUnknownOwner)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrUnknownClient)
	assert.NotErrorIs(t, err, ErrValidation)
}

func recurringParent(t *testing.T) models.Invoice {
	return models.Invoice{
		ID:                3,
		InvoiceNumber:     "INV-003",
		UserID:            5,
		Status:            models.StatusSent,
		Items:             []models.InvoiceItem{{ID: 1, Description: "retainer", Quantity: 1, UnitPrice: 5000, Total: 5000}},
		Recurring:         models.RecurrenceMonthly,
		NextRecurringDate: datePtr(t, "2026-03-01"),
	}
}

func TestInvoiceService_SpawnRecurring_StorageFailureStoresNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoices := mock.NewMockInvoiceRepository(ctrl)
	audit := mock.NewMockAuditService(ctrl)

	parent := recurringParent(t)
	invoices.EXPECT().GetInvoice(gomock.Any(), int64(3)).Return(parent, nil)
	invoices.EXPECT().
		SpawnInvoice(gomock.Any(), gomock.Any(), int64(3), parent.NextRecurringDate, date(t, "2026-04-01")).
		DoAndReturn(func(_ context.Context, child models.Invoice, _ int64, _ *models.Date, _ models.Date) (models.Invoice, error) {
			assert.Equal(t, "2026-03-01", child.IssueDate.String())
			assert.Equal(t, models.StatusDraft, child.Status)
			return models.Invoice{}, store.ErrCommitingTransaction
		})
	// no CreateInvoice, UpdateInvoice or audit record is expected

	svc := NewInvoiceService(invoices, mock.NewMockClientRepository(ctrl), audit, validators.NewStructValidator(), logger.Nop())
	_, spawned, err := svc.SpawnRecurring(context.Background(), 5, 3)
	require.ErrorIs(t, err, ErrInternal)
	assert.False(t, spawned)
}

func TestInvoiceService_SpawnRecurring_ConcurrentSpawnConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoices := mock.NewMockInvoiceRepository(ctrl)

	invoices.EXPECT().GetInvoice(gomock.Any(), int64(3)).Return(recurringParent(t), nil)
	invoices.EXPECT().SpawnInvoice(gomock.Any(), gomock.Any(), int64(3), gomock.Any(), gomock.Any()).
		Return(models.Invoice{}, store.ErrConflict)

	svc := NewInvoiceService(invoices, mock.NewMockClientRepository(ctrl), mock.NewMockAuditService(ctrl), validators.NewStructValidator(), logger.Nop())
	_, _, err := svc.SpawnRecurring(context.Background(), 5, 3)
	require.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestInvoiceService_SpawnRecurring_OnePeriodOnce(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.InvoiceService

	input := designInvoice()
	input.Recurring = models.RecurrenceWeekly
	input.NextRecurringDate = datePtr(t, "2026-03-20")
	original, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		issued = make(map[string]int)
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			child, spawned, err := svc.SpawnRecurring(ctx, 1, original.ID)
			if err != nil {
				assert.ErrorIs(t, err, ErrConflict)
				return
			}
			assert.True(t, spawned)
			mu.Lock()
			issued[child.IssueDate.String()]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	for day, n := range issued {
		assert.Equalf(t, 1, n, "period %s billed %d times", day, n)
	}

	list, err := svc.List(ctx, 1, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, len(issued)+1)

	parent, err := svc.Get(ctx, 1, original.ID)
	require.NoError(t, err)
	assert.Equal(t, date(t, "2026-03-20").AddDays(7*len(issued)).String(), parent.NextRecurringDate.String())
}

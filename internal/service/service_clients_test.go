package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-invoicer/models"
)

func TestClientService_OutstandingBalance(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	client, err := services.ClientService.Create(ctx, 1, models.Client{Name: "  Acme  ", Email: "billing@acme.io"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", client.Name)
	assert.Zero(t, client.OutstandingBalance)

	for _, status := range []models.InvoiceStatus{models.StatusSent, models.StatusOverdue, models.StatusPaid, models.StatusDraft} {
		input := designInvoice()
		input.Client = nil
		input.ClientID = client.ID
		input.Status = status
		_, err = services.InvoiceService.Create(ctx, 1, input)
		require.NoError(t, err)
	}

	got, err := services.ClientService.Get(ctx, 1, client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(2*22600), got.OutstandingBalance)

	list, err := services.ClientService.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, got.OutstandingBalance, list[0].OutstandingBalance)
}

func TestClientService_UpdateAndDelete(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.ClientService

	client, err := svc.Create(ctx, 1, models.Client{Name: "Acme"})
	require.NoError(t, err)

	input := designInvoice()
	input.Client = nil
	input.ClientID = client.ID
	inv, err := services.InvoiceService.Create(ctx, 1, input)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, client.ID, models.Client{Name: "Acme Inc", Phone: "+1 555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", updated.Name)
	assert.Equal(t, client.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, 2, client.ID, models.Client{Name: "Hijack"})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, 2, client.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, 1, client.ID))

	_, err = svc.Get(ctx, 1, client.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// the invoice keeps its snapshot
	kept, err := services.InvoiceService.Get(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", kept.Client.Name)
	assert.Zero(t, kept.ClientID)
}

func TestClientService_Validation(t *testing.T) {
	services, _ := newTestServices(t)

	_, err := services.ClientService.Create(context.Background(), 1, models.Client{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)

	_, err = services.ClientService.Create(context.Background(), 1, models.Client{Name: "Acme", Email: "nope"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestClientService_AuditTrail(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	client, err := services.ClientService.Create(ctx, 1, models.Client{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, services.ClientService.Delete(ctx, 1, client.ID))

	entries, err := services.AuditService.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	actions := []string{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []string{"create", "delete"}, actions)
	for _, e := range entries {
		assert.Equal(t, "client", e.Entity)
		assert.Equal(t, client.ID, e.EntityID)
	}
}

func TestProductService_CRUD(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()
	svc := services.ProductService

	product, err := svc.Create(ctx, 1, models.Product{Name: " Consulting ", UnitPrice: 15000})
	require.NoError(t, err)
	assert.Equal(t, "Consulting", product.Name)
	assert.Equal(t, int64(1), product.UserID)

	_, err = svc.Create(ctx, 1, models.Product{Name: "Broken", UnitPrice: -1})
	require.ErrorIs(t, err, ErrValidation)

	updated, err := svc.Update(ctx, 1, product.ID, models.Product{Name: "Consulting (senior)", UnitPrice: 20000})
	require.NoError(t, err)
	assert.Equal(t, models.Money(20000), updated.UnitPrice)

	_, err = svc.Get(ctx, 2, product.ID)
	require.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, 1, product.ID))
	require.ErrorIs(t, svc.Delete(ctx, 1, product.ID), ErrNotFound)
}

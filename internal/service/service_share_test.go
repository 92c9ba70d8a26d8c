package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
)

func TestShareService_IssueAndResolve(t *testing.T) {
	services, clock := newTestServices(t)
	ctx := context.Background()

	inv, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	link, err := services.ShareService.Issue(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://invoicer.test"+PublicInvoicePath+link.Token, link.URL)
	assert.Equal(t, clock.Now().Add(time.Hour), link.ExpiresAt)

	shared, err := services.ShareService.Resolve(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, shared.ID)
	assert.Equal(t, inv.Total, shared.Total)

	clock.Advance(time.Hour + time.Second)
	_, err = services.ShareService.Resolve(ctx, link.Token)
	require.ErrorIs(t, err, ErrInvalidShareToken)
}

func TestShareService_Resolve_DeletedInvoice(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	inv, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)
	link, err := services.ShareService.Issue(ctx, 1, inv.ID)
	require.NoError(t, err)

	require.NoError(t, services.InvoiceService.Delete(ctx, 1, inv.ID))

	_, err = services.ShareService.Resolve(ctx, link.Token)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_Issue_UnknownInvoice(t *testing.T) {
	svc, err := NewShareService(store.NewMemoryStore(), config.App{
		ShareSignKey:  "k",
		ShareIssuer:   "go-invoicer",
		ShareDuration: time.Hour,
		PublicURL:     "http://x",
	}, logger.Nop())
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), 1, 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestShareService_Resolve_RejectsBadTokens(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	inv, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)
	link, err := services.ShareService.Issue(ctx, 1, inv.ID)
	require.NoError(t, err)

	other, err := NewShareService(store.NewMemoryStore(), config.App{ShareSignKey: "another-key", ShareIssuer: "go-invoicer", ShareDuration: time.Hour}, logger.Nop())
	require.NoError(t, err)

	_, err = other.Resolve(ctx, link.Token)
	require.ErrorIs(t, err, ErrInvalidShareToken)

	_, err = services.ShareService.Resolve(ctx, "not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidShareToken)

	_, err = services.ShareService.Resolve(ctx, link.Token+"x")
	require.ErrorIs(t, err, ErrInvalidShareToken)
}

func TestShareService_Issue_OtherOwner(t *testing.T) {
	services, _ := newTestServices(t)
	ctx := context.Background()

	inv, err := services.InvoiceService.Create(ctx, 1, designInvoice())
	require.NoError(t, err)

	_, err = services.ShareService.Issue(ctx, 2, inv.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewShareService_EphemeralKey(t *testing.T) {
	svc, err := NewShareService(store.NewMemoryStore(), config.App{ShareIssuer: "go-invoicer"}, logger.Nop())
	require.NoError(t, err)
	assert.NotEmpty(t, svc.(*shareService).signKey)
}

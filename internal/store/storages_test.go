package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-invoicer/internal/config"
	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), config.Storage{DB: config.DB{Driver: config.DriverMemory}}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &MemoryStore{}, s.UserRepository)
	assert.Same(t, s.UserRepository, s.InvoiceRepository)
}

func TestNewStorages_UnsupportedDriver(t *testing.T) {
	_, err := NewStorages(context.Background(), config.Storage{DB: config.DB{Driver: "oracle"}}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewStorages_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewStorages(context.Background(), config.Storage{
		DB:    config.DB{Driver: config.DriverMemory},
		Redis: config.Redis{Address: mr.Addr()},
	}, logger.Nop())
	require.NoError(t, err)

	assert.IsType(t, &redisSessionRepository{}, s.SessionRepository)
	assert.NoError(t, s.Close())
}

func TestNewStorages_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "invoicer.db")

	s, err := NewStorages(ctx, config.Storage{DB: config.DB{Driver: config.DriverSQLite, DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	now := time.Now().UTC().Truncate(time.Second)
	user, err := s.UserRepository.CreateUser(ctx, models.User{
		Name: "Ann", Email: "Ann@Example.com", PasswordHash: "h", Role: models.RoleUser, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = s.UserRepository.CreateUser(ctx, models.User{Name: "x", Email: "ANN@example.com", PasswordHash: "h", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	client, err := s.ClientRepository.CreateClient(ctx, models.Client{UserID: user.ID, Name: "Acme", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	inv := models.Invoice{
		UserID:    user.ID,
		ClientID:  client.ID,
		Client:    client.Snapshot(),
		IssueDate: models.NewDate(now),
		DueDate:   models.NewDate(now).AddDays(30),
		Status:    models.StatusDraft,
		Items:     []models.InvoiceItem{{Description: "work", Quantity: 2, UnitPrice: 1500}},
		Recurring: models.RecurrenceNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inv.Recalculate()

	first, err := s.InvoiceRepository.CreateInvoice(ctx, inv)
	require.NoError(t, err)
	second, err := s.InvoiceRepository.CreateInvoice(ctx, inv)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", first.InvoiceNumber)
	assert.Equal(t, "INV-002", second.InvoiceNumber)

	got, err := s.InvoiceRepository.GetInvoice(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(3000), got.Total)
	assert.Equal(t, inv.DueDate.String(), got.DueDate.String())
	require.Len(t, got.Items, 1)

	require.NoError(t, s.ClientRepository.DeleteClient(ctx, client.ID))
	got, err = s.InvoiceRepository.GetInvoice(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ClientID)
	assert.Equal(t, "Acme", got.Client.Name)

	orphan := inv
	orphan.ClientID = 999
	_, err = s.InvoiceRepository.CreateInvoice(ctx, orphan)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestNewStorages_SQLite_ProductsAndAudit(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "invoicer.db")

	s, err := NewStorages(ctx, config.Storage{DB: config.DB{Driver: config.DriverSQLite, DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	now := time.Now().UTC().Truncate(time.Second)
	user, err := s.UserRepository.CreateUser(ctx, models.User{
		Name: "Bob", Email: "bob@example.com", PasswordHash: "h", Role: models.RoleUser, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	product, err := s.ProductRepository.CreateProduct(ctx, models.Product{
		UserID: user.ID, Name: "Hosting", UnitPrice: 2500, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NotZero(t, product.ID)

	product.UnitPrice = 3000
	product.Description = "monthly"
	updated, err := s.ProductRepository.UpdateProduct(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, models.Money(3000), updated.UnitPrice)
	assert.Equal(t, "monthly", updated.Description)

	products, err := s.ProductRepository.ListProducts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NoError(t, s.ProductRepository.DeleteProduct(ctx, product.ID))
	_, err = s.ProductRepository.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.ProductRepository.DeleteProduct(ctx, product.ID), ErrNotFound)

	for i, action := range []string{"create", "update", "delete"} {
		_, err = s.AuditLogRepository.CreateAuditLog(ctx, models.AuditLog{
			UserID: user.ID, Entity: "product", EntityID: product.ID, Action: action,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	logs, err := s.AuditLogRepository.ListAuditLogs(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "delete", logs[0].Action)
	assert.Equal(t, "update", logs[1].Action)
}

func TestNewStorages_SQLite_SpawnInvoice(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "invoicer.db")

	s, err := NewStorages(ctx, config.Storage{DB: config.DB{Driver: config.DriverSQLite, DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	now := time.Now().UTC().Truncate(time.Second)
	user, err := s.UserRepository.CreateUser(ctx, models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: models.RoleUser, IsActive: true, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	from := models.NewDate(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	parent, err := s.InvoiceRepository.CreateInvoice(ctx, models.Invoice{
		UserID: user.ID, IssueDate: from, DueDate: from.AddDays(30), Status: models.StatusSent,
		Items:     []models.InvoiceItem{{Description: "retainer", Quantity: 1, UnitPrice: 5000}},
		Recurring: models.RecurrenceMonthly, NextRecurringDate: &from,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	child := parent
	child.ID = 0
	child.Status = models.StatusDraft
	child.ParentInvoiceID = &parent.ID
	child.Recurring = models.RecurrenceNone
	child.NextRecurringDate = nil

	next := from.AddMonths(1)
	spawned, err := s.InvoiceRepository.SpawnInvoice(ctx, child, parent.ID, &from, next)
	require.NoError(t, err)
	assert.NotEqual(t, parent.InvoiceNumber, spawned.InvoiceNumber)

	got, err := s.InvoiceRepository.GetInvoice(ctx, parent.ID)
	require.NoError(t, err)
	require.NotNil(t, got.NextRecurringDate)
	assert.Equal(t, next.String(), got.NextRecurringDate.String())

	_, err = s.InvoiceRepository.SpawnInvoice(ctx, child, parent.ID, &from, next)
	assert.ErrorIs(t, err, ErrConflict)

	all, err := s.InvoiceRepository.ListInvoices(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

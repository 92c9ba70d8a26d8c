package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/models"
)

func newTestInvoiceRepo(t *testing.T) (*invoiceRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &invoiceRepository{db: db, logger: logger.Nop()}, mock
}

func invoiceRow(rows *sqlmock.Rows, inv models.Invoice) *sqlmock.Rows {
	var clientID any
	if inv.ClientID != 0 {
		clientID = inv.ClientID
	}
	return rows.AddRow(inv.ID, inv.InvoiceNumber, inv.UserID, clientID,
		inv.Client.Name, inv.Client.Email, inv.Client.Company, inv.Client.Address,
		inv.IssueDate.Time, inv.DueDate.Time, string(inv.Status),
		int64(inv.Subtotal), int64(inv.TaxRate), int64(inv.TaxAmount), int64(inv.Discount), int64(inv.DiscountAmount), int64(inv.Total),
		inv.Notes, inv.Terms, string(inv.Recurring), nil, nil,
		inv.CreatedAt, inv.UpdatedAt, nil, nil, nil)
}

func sampleInvoice() models.Invoice {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	inv := models.Invoice{
		UserID:    1,
		Client:    models.ClientSnapshot{Name: "Acme"},
		IssueDate: models.NewDate(now),
		DueDate:   models.NewDate(now).AddDays(30),
		Status:    models.StatusDraft,
		Items: []models.InvoiceItem{
			{Description: "design", Quantity: 2, UnitPrice: 10000},
			{Description: "hosting", Quantity: 1, UnitPrice: 500},
		},
		TaxRate:   1300,
		Recurring: models.RecurrenceNone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	inv.Recalculate()
	return inv
}

func TestCreateInvoice_AssignsNumberInTransaction(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	inv := sampleInvoice()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE sequences SET value = value \\+ 1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(7)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WithArgs(int64(42), 0, "design", int64(2), models.Money(10000), models.Money(20000)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WithArgs(int64(42), 1, "hosting", int64(1), models.Money(500), models.Money(500)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))
	mock.ExpectCommit()

	created, err := repo.CreateInvoice(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "INV-007", created.InvoiceNumber)
	require.Len(t, created.Items, 2)
	assert.Equal(t, int64(100), created.Items[0].ID)
	assert.Equal(t, int64(101), created.Items[1].ID)
	// the caller's slice is untouched
	assert.Zero(t, inv.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_RollsBackOnItemFailure(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE sequences").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.CreateInvoice(context.Background(), sampleInvoice())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_UnknownClient(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	inv := sampleInvoice()
	inv.ClientID = 999

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE sequences").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))
	mock.ExpectRollback()

	_, err := repo.CreateInvoice(context.Background(), inv)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestCreateInvoice_NumberCollision(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE sequences").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "invoices_invoice_number_key"})
	mock.ExpectRollback()

	_, err := repo.CreateInvoice(context.Background(), sampleInvoice())
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_UnknownOwner(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE sequences").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "invoices_user_id_fkey"})
	mock.ExpectRollback()

	_, err := repo.CreateInvoice(context.Background(), sampleInvoice())
	assert.ErrorIs(t, err, ErrOwnerNotFound)
	assert.NotErrorIs(t, err, ErrReferenceNotFound)
}

func spawnChild() models.Invoice {
	child := sampleInvoice()
	parentID := int64(9)
	child.ParentInvoiceID = &parentID
	return child
}

func TestSpawnInvoice_AdvancesParentAndInserts(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	from := models.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	next := from.AddMonths(1)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE invoices SET next_recurring_date = \$1, updated_at = \$2 WHERE \(id = \$3 AND next_recurring_date = \$4\)`).
		WithArgs(next.Time, sqlmock.AnyArg(), int64(9), from.Time).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE sequences").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(8)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(43)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(200)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(201)))
	mock.ExpectCommit()

	spawned, err := repo.SpawnInvoice(context.Background(), spawnChild(), 9, &from, next)
	require.NoError(t, err)
	assert.Equal(t, int64(43), spawned.ID)
	assert.Equal(t, "INV-008", spawned.InvoiceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpawnInvoice_StaleDateConflicts(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	from := models.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invoices SET next_recurring_date").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.SpawnInvoice(context.Background(), spawnChild(), 9, &from, from.AddDays(7))
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpawnInvoice_WithoutDateMatchesNull(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	next := models.NewDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec(`WHERE \(id = \$3 AND next_recurring_date IS NULL\)`).
		WithArgs(next.Time, sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.SpawnInvoice(context.Background(), spawnChild(), 9, nil, next)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpawnInvoice_InsertFailureRollsBackParent(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	from := models.NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE invoices SET next_recurring_date").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE sequences").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(8)))
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.SpawnInvoice(context.Background(), spawnChild(), 9, &from, from.AddDays(7))
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoice_BeginFails(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, err := repo.CreateInvoice(context.Background(), sampleInvoice())
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestGetInvoice_LoadsItems(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	inv := sampleInvoice()
	inv.ID = 5
	inv.InvoiceNumber = "INV-005"

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(invoiceRow(sqlmock.NewRows(invoiceColumns), inv))
	mock.ExpectQuery("SELECT (.+) FROM invoice_items WHERE invoice_id IN \\(\\$1\\) ORDER BY invoice_id, position").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(invoiceItemColumns).
			AddRow(int64(1), int64(5), "design", int64(2), int64(10000), int64(20000)).
			AddRow(int64(2), int64(5), "hosting", int64(1), int64(500), int64(500)))

	got, err := repo.GetInvoice(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "INV-005", got.InvoiceNumber)
	assert.Equal(t, inv.Total, got.Total)
	assert.Equal(t, inv.IssueDate.String(), got.IssueDate.String())
	assert.Zero(t, got.ClientID)
	assert.Nil(t, got.PaidAt)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "design", got.Items[0].Description)
	assert.Equal(t, models.Money(20000), got.Items[0].Total)
}

func TestGetInvoice_NotFound(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	_, err := repo.GetInvoice(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListInvoices_GroupsItems(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	newer := sampleInvoice()
	newer.ID = 2
	newer.ClientID = 4
	older := sampleInvoice()
	older.ID = 1

	rows := sqlmock.NewRows(invoiceColumns)
	invoiceRow(rows, newer)
	invoiceRow(rows, older)

	mock.ExpectQuery("SELECT (.+) FROM invoices WHERE user_id = \\$1 ORDER BY created_at DESC, id DESC").
		WithArgs(int64(1)).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT (.+) FROM invoice_items WHERE invoice_id IN \\(\\$1,\\$2\\)").
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows(invoiceItemColumns).
			AddRow(int64(10), int64(2), "only", int64(1), int64(1), int64(1)))

	got, err := repo.ListInvoices(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(4), got[0].ClientID)
	assert.Len(t, got[0].Items, 1)
	assert.NotNil(t, got[1].Items)
	assert.Empty(t, got[1].Items)
}

func TestListInvoices_Empty(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	got, err := repo.ListInvoices(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvoice_ReplacesItems(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)
	inv := sampleInvoice()
	inv.ID = 3
	inv.Items = inv.Items[:1]

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE invoices SET (.+) WHERE id = \\$\\d+ RETURNING").
		WillReturnRows(invoiceRow(sqlmock.NewRows(invoiceColumns), inv))
	mock.ExpectExec("DELETE FROM invoice_items WHERE invoice_id = \\$1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))
	mock.ExpectCommit()

	got, err := repo.UpdateInvoice(context.Background(), inv)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(77), got.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvoice_NotFound(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE invoices").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))
	mock.ExpectRollback()

	_, err := repo.UpdateInvoice(context.Background(), sampleInvoice())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteInvoice(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM invoice_items").WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM invoices WHERE id = \\$1").WithArgs(int64(8)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteInvoice(context.Background(), 8))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteInvoice_NotFound(t *testing.T) {
	repo, mock := newTestInvoiceRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM invoice_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM invoices").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteInvoice(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

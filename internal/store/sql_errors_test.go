package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{"nil", nil, Unclassified},
		{"plain error", errors.New("boom"), Unclassified},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, UniqueViolation},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}), UniqueViolation},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ForeignKeyViolation},
		{"not null", &pgconn.PgError{Code: pgerrcode.NotNullViolation}, OtherConstraintViolation},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, OtherConstraintViolation},
		{"syntax", &pgconn.PgError{Code: pgerrcode.SyntaxError}, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{"nil", nil, Unclassified},
		{"plain error", errors.New("boom"), Unclassified},
		{"unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, UniqueViolation},
		{"primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, UniqueViolation},
		{"foreign key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, ForeignKeyViolation},
		{"not null", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, OtherConstraintViolation},
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestDB_Classify(t *testing.T) {
	db, _ := newTestDB(t)

	err := db.classify(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "invoices_invoice_number_key"}, ErrExecutingQuery)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrEmailAlreadyExists)

	err = db.classify(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "invoices_client_id_fkey"}, ErrExecutingQuery)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.NotErrorIs(t, err, ErrOwnerNotFound)

	err = db.classify(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "clients_user_id_fkey"}, ErrExecutingQuery)
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	err = db.classify(errors.New("connection reset"), ErrExecutingQuery)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestViolatesEmailIndex(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"postgres email index", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_idx"}, true},
		{"postgres invoice number", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "invoices_invoice_number_key"}, false},
		{"other error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, violatesEmailIndex(tt.err))
		})
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // no expectations: goose's first statement fails

	err = Migrate(db, DialectPostgres)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db, DialectPostgres)
	if err == nil {
		t.Fatal("expected error when db is nil, got nil")
	}

	if !strings.Contains(err.Error(), "db is nil") {
		t.Errorf("expected 'db is nil' error, got: %v", err)
	}
}

func TestMigrate_UnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	err = Migrate(db, "oracle")
	if err == nil || !strings.Contains(err.Error(), "unknown dialect") {
		t.Fatalf("expected unknown dialect error, got: %v", err)
	}
}

func TestEmbeddedMigrations_EveryDialectHasSameVersions(t *testing.T) {
	pg, err := fs.Glob(embedMigrations, DialectPostgres+"/*.sql")
	if err != nil {
		t.Fatalf("glob postgres: %v", err)
	}
	lite, err := fs.Glob(embedMigrations, DialectSQLite+"/*.sql")
	if err != nil {
		t.Fatalf("glob sqlite: %v", err)
	}

	if len(pg) == 0 {
		t.Fatal("no postgres migrations embedded")
	}
	if len(pg) != len(lite) {
		t.Fatalf("dialects diverge: %d postgres vs %d sqlite migrations", len(pg), len(lite))
	}

	for i := range pg {
		if strings.TrimPrefix(pg[i], DialectPostgres) != strings.TrimPrefix(lite[i], DialectSQLite) {
			t.Errorf("migration %d differs: %s vs %s", i, pg[i], lite[i])
		}
	}
}

func TestEmbeddedMigrations_CreateAllTables(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		body, err := fs.ReadFile(embedMigrations, dialect+"/00001_init.sql")
		if err != nil {
			t.Fatalf("read %s migration: %v", dialect, err)
		}

		for _, table := range []string{"users", "user_sessions", "clients", "products", "invoices", "invoice_items", "audit_logs", "sequences"} {
			if !strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Errorf("%s migration does not create table %s", dialect, table)
			}
		}
	}
}

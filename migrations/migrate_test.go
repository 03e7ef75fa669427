// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"context"
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

	_ = mock // goose talks to the DB itself, no expectations set

	err = Migrate(context.Background(), db, DialectPostgres)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(context.Background(), db, DialectSQLite)
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

	err = Migrate(context.Background(), db, Dialect("oracle"))
	if err == nil || !strings.Contains(err.Error(), "unknown migration dialect") {
		t.Fatalf("expected unknown dialect error, got: %v", err)
	}
}

// TestMigrationSets_Match keeps both dialects in lockstep.
func TestMigrationSets_Match(t *testing.T) {
	pg, err := fs.Glob(embedMigrations, "postgres/*.sql")
	if err != nil {
		t.Fatal(err)
	}
	lite, err := fs.Glob(embedMigrations, "sqlite/*.sql")
	if err != nil {
		t.Fatal(err)
	}

	if len(pg) == 0 || len(pg) != len(lite) {
		t.Fatalf("expected equal non-empty migration sets, got %d postgres and %d sqlite", len(pg), len(lite))
	}
	for i := range pg {
		if strings.TrimPrefix(pg[i], "postgres/") != strings.TrimPrefix(lite[i], "sqlite/") {
			t.Errorf("migration %d differs: %s vs %s", i, pg[i], lite[i])
		}
	}
}

func TestMigrationSets_PartialUniqueIndex(t *testing.T) {
	for _, dir := range []string{"postgres", "sqlite"} {
		data, err := fs.ReadFile(embedMigrations, dir+"/00001_sync_sessions.sql")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "WHERE status = 'in_progress' AND kind = 'full'") {
			t.Errorf("%s: one-active-session index missing", dir)
		}
	}
}

// Package migrations embeds the catalog schema and applies it with goose.
// Postgres and SQLite keep separate migration sets because their column
// types differ; both define the same tables and indexes.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// Dialect selects the migration set.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var (
	errNilDB          = errors.New("db is nil")
	errUnknownDialect = errors.New("unknown migration dialect")
)

// Migrate applies every pending migration of the given dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	var gooseDialect goose.Dialect
	switch dialect {
	case DialectPostgres:
		gooseDialect = goose.DialectPostgres
	case DialectSQLite:
		gooseDialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("migration error: %w: %q", errUnknownDialect, dialect)
	}

	fsys, err := fs.Sub(embedMigrations, string(dialect))
	if err != nil {
		return fmt.Errorf("migration error opening %s migrations: %w", dialect, err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migration error creating provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

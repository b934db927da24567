// Package repomanager provides a concrete RepositoryManager for PostgreSQL
// and SQLite, wiring together repository constructors and database
// migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/filehost/internal/dbx"
	"github.com/dmitrijs2005/filehost/internal/server/migrations"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/files"
	"github.com/dmitrijs2005/filehost/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repository implementations and
// exposes a schema migration hook for its dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Files returns a files.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewSQLRepository(db)
}

// gooseUp is a seam for testing the goose provider.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

// RunMigrations applies the embedded migrations of the manager's dialect
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch m.dialect {
	case dbx.DialectPostgres:
		dialect, dir = goose.DialectPostgres, "postgres"
	case dbx.DialectSQLite:
		dialect, dir = goose.DialectSQLite3, "sqlite"
	default:
		return fmt.Errorf("unsupported dialect %q", m.dialect)
	}

	fsys, err := fs.Sub(migrations.Migrations, dir)
	if err != nil {
		return err
	}

	if err := gooseUp(ctx, dialect, db, fsys); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for the given dialect.
func NewRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	switch dialect {
	case dbx.DialectPostgres, dbx.DialectSQLite:
		return &SQLRepositoryManager{dialect: dialect}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

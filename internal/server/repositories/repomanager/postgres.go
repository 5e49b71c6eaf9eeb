// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/migrations"
	"github.com/dmitrijs2005/libris/internal/server/repositories/books"
	"github.com/dmitrijs2005/libris/internal/server/repositories/categories"
	"github.com/dmitrijs2005/libris/internal/server/repositories/issues"
	"github.com/dmitrijs2005/libris/internal/server/repositories/members"
	"github.com/dmitrijs2005/libris/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/libris/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/libris/internal/server/repositories/requests"
	"github.com/dmitrijs2005/libris/internal/server/repositories/sequences"
	"github.com/dmitrijs2005/libris/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Sequences(db dbx.DBTX) sequences.Repository {
	return sequences.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Requests(db dbx.DBTX) requests.Repository {
	return requests.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Categories(db dbx.DBTX) categories.Repository {
	return categories.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Books(db dbx.DBTX) books.Repository {
	return books.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Members(db dbx.DBTX) members.Repository {
	return members.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Issues(db dbx.DBTX) issues.Repository {
	return issues.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}

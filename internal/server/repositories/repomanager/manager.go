package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/libris/internal/dbx"
	"github.com/dmitrijs2005/libris/internal/server/repositories/books"
	"github.com/dmitrijs2005/libris/internal/server/repositories/categories"
	"github.com/dmitrijs2005/libris/internal/server/repositories/issues"
	"github.com/dmitrijs2005/libris/internal/server/repositories/members"
	"github.com/dmitrijs2005/libris/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/libris/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/libris/internal/server/repositories/requests"
	"github.com/dmitrijs2005/libris/internal/server/repositories/sequences"
	"github.com/dmitrijs2005/libris/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Sequences(db dbx.DBTX) sequences.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Requests(db dbx.DBTX) requests.Repository
	Categories(db dbx.DBTX) categories.Repository
	Books(db dbx.DBTX) books.Repository
	Members(db dbx.DBTX) members.Repository
	Issues(db dbx.DBTX) issues.Repository
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/messagely/messagely/internal/dbx"
	"github.com/messagely/messagely/internal/server/repositories/messages"
	"github.com/messagely/messagely/internal/server/repositories/users"
)

// RepositoryManager vends store repositories bound to a DBTX and exposes
// a schema migration hook. Services pass either the shared *sql.DB or a
// transaction, which keeps every operation a single unit of work.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Messages(db dbx.DBTX) messages.Repository
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/schedvault/schedvault/internal/dbx"
	"github.com/schedvault/schedvault/internal/server/repositories/records"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
}

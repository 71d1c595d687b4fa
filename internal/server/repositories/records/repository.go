// Package records provides the authoritative store for scheduling records:
// a repository interface plus in-memory and PostgreSQL implementations. The
// store is append-only for the life of the process; records are never
// deleted and their encrypted fields never overwritten.
package records

import (
	"context"

	"github.com/schedvault/schedvault/internal/server/models"
)

// Repository is the record store contract. Implementations must make every
// method an atomic, linearizable step: under concurrent callers the first
// conflicting operation to commit wins and the loser observes
// ErrorDuplicateID or ErrorAlreadyVerified.
type Repository interface {
	// Create inserts a new record. An existing id yields
	// common.ErrorDuplicateID and leaves the stored record untouched.
	Create(ctx context.Context, record *models.Record) error

	// Get returns the record for id, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Record, error)

	// ListIDs returns every stored id in insertion order. The result is a
	// stable snapshot, safe to iterate repeatedly.
	ListIDs(ctx context.Context) ([]string, error)

	// MarkVerified performs the one-time verified transition, writing the
	// authenticated cleartext values. A record that is already verified
	// yields common.ErrorAlreadyVerified; an unknown id yields
	// common.ErrorNotFound. No partial write happens on any failure.
	MarkVerified(ctx context.Context, id string, start, end uint32) error
}

package records

import (
	"context"
	"sync"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/server/models"
)

// MemoryRepository keeps the authoritative record map and the append-only
// id index in process memory behind a single mutex, which gives every
// operation the required total-order semantics.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Record
	ids     []string
}

// NewMemoryRepository constructs an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*models.Record)}
}

func (r *MemoryRepository) Create(ctx context.Context, record *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return common.ErrorDuplicateID
	}

	r.records[record.ID] = record.Clone()
	r.ids = append(r.ids, record.ID)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return record.Clone(), nil
}

func (r *MemoryRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out, nil
}

func (r *MemoryRepository) MarkVerified(ctx context.Context, id string, start, end uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return common.ErrorNotFound
	}
	if record.Verified {
		return common.ErrorAlreadyVerified
	}

	record.RevealedStart = start
	record.RevealedEnd = end
	record.Verified = true
	return nil
}

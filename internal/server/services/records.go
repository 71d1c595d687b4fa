// Package services contains server-side business logic. This file implements
// RecordService: record creation, the one-time verifiable reveal protocol,
// and the blind availability query.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/cryptox"
	"github.com/schedvault/schedvault/internal/logging"
	"github.com/schedvault/schedvault/internal/oracle"
	"github.com/schedvault/schedvault/internal/server/events"
	"github.com/schedvault/schedvault/internal/server/models"
	"github.com/schedvault/schedvault/internal/server/repositories/records"
)

// CreateParams bundles a record creation request. Sensitive fields arrive
// as externally produced ciphertexts with well-formedness proofs; public
// fields arrive as plaintext.
type CreateParams struct {
	ID             string
	Title          string
	EncryptedStart []byte
	StartProof     []byte
	EncryptedEnd   []byte
	EndProof       []byte
	PublicDuration uint32
	Creator        string
}

// RecordService owns the scheduling-record lifecycle. The mutex serializes
// all mutating operations so that create/reveal races resolve the way a
// single-writer transaction log would: first to commit wins, the loser
// observes ErrorDuplicateID or ErrorAlreadyVerified.
type RecordService struct {
	mu       sync.Mutex
	repo     records.Repository
	oracle   oracle.CiphertextOracle
	verifier oracle.ProofVerifier
	bus      events.Bus
	logger   logging.Logger

	// now is a seam for tests.
	now func() time.Time
}

// NewRecordService wires the store, the cryptographic collaborators, and
// the notification bus.
func NewRecordService(repo records.Repository, o oracle.CiphertextOracle, v oracle.ProofVerifier, bus events.Bus, logger logging.Logger) *RecordService {
	return &RecordService{
		repo:     repo,
		oracle:   o,
		verifier: v,
		bus:      bus,
		logger:   logger.With("module", "records"),
		now:      time.Now,
	}
}

// Create validates and stores a new record. Both ciphertexts must pass the
// oracle's validity check; on success their handles are granted the
// capabilities later protocol steps need (self access for comparisons,
// public revealability for the reveal path). Creation is all-or-nothing: no
// partial record is ever stored.
func (s *RecordService) Create(ctx context.Context, p CreateParams) (*models.Record, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("create record: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, p.ID); err == nil {
		return nil, fmt.Errorf("create record %q: %w", p.ID, common.ErrorDuplicateID)
	}

	startHandle, err := s.oracle.FromExternal(ctx, p.EncryptedStart, p.StartProof)
	if err != nil {
		return nil, fmt.Errorf("create record %q: start ciphertext: %w", p.ID, err)
	}
	endHandle, err := s.oracle.FromExternal(ctx, p.EncryptedEnd, p.EndProof)
	if err != nil {
		return nil, fmt.Errorf("create record %q: end ciphertext: %w", p.ID, err)
	}

	for _, h := range []oracle.Handle{startHandle, endHandle} {
		if err := s.oracle.AuthorizeSelfAccess(ctx, h); err != nil {
			return nil, fmt.Errorf("create record %q: authorize handle: %w", p.ID, err)
		}
		if err := s.oracle.MarkPubliclyRevealable(ctx, h); err != nil {
			return nil, fmt.Errorf("create record %q: mark revealable: %w", p.ID, err)
		}
	}

	record := &models.Record{
		ID:             p.ID,
		Title:          p.Title,
		EncryptedStart: startHandle,
		EncryptedEnd:   endHandle,
		PublicDuration: p.PublicDuration,
		Creator:        p.Creator,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create record %q: %w", p.ID, err)
	}

	s.logger.Info(ctx, "record created", "id", record.ID, "creator", record.Creator)
	s.bus.Publish(ctx, events.RecordCreated{ID: record.ID, Creator: record.Creator})

	return record, nil
}

// Reveal runs the one-time reveal protocol: both claimed cleartexts and
// their proofs are submitted to the verifier as a single batch so that one
// field can never end up authenticated without the other. On success the
// record becomes verified, permanently.
func (s *RecordService) Reveal(ctx context.Context, id string, claimedStart, startProof, claimedEnd, endProof []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("reveal record %q: %w", id, err)
	}
	if record.Verified {
		return fmt.Errorf("reveal record %q: %w", id, common.ErrorAlreadyVerified)
	}

	err = s.verifier.VerifyBatch(ctx,
		[]oracle.Handle{record.EncryptedStart, record.EncryptedEnd},
		[][]byte{claimedStart, claimedEnd},
		[][]byte{startProof, endProof})
	if err != nil {
		return fmt.Errorf("reveal record %q: %w", id, err)
	}

	start, err := cryptox.DecodeUint32(claimedStart)
	if err != nil {
		return fmt.Errorf("reveal record %q: claimed start: %w", id, common.ErrorProofRejected)
	}
	end, err := cryptox.DecodeUint32(claimedEnd)
	if err != nil {
		return fmt.Errorf("reveal record %q: claimed end: %w", id, common.ErrorProofRejected)
	}

	if err := s.repo.MarkVerified(ctx, id, start, end); err != nil {
		return fmt.Errorf("reveal record %q: %w", id, err)
	}

	s.logger.Info(ctx, "decryption verified", "id", id, "start", start, "end", end)
	s.bus.Publish(ctx, events.DecryptionVerified{ID: id, Start: start, End: end})

	return nil
}

// CheckAvailability answers whether the encrypted query instant falls
// outside the record's closed [start, end] interval. The comparison is
// evaluated by the oracle over ciphertext handles; only the boolean leaves
// this call, and nothing is persisted.
func (s *RecordService) CheckAvailability(ctx context.Context, id string, encryptedQuery, queryProof []byte) (bool, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check availability %q: %w", id, err)
	}

	// Stored handles must still be live in the oracle; a backend restarted
	// with fresh key material cannot compare against them.
	if !s.oracle.IsInitialized(ctx, record.EncryptedStart) || !s.oracle.IsInitialized(ctx, record.EncryptedEnd) {
		return false, fmt.Errorf("check availability %q: stored handle: %w", id, common.ErrorInvalidCiphertext)
	}

	queryHandle, err := s.oracle.FromExternal(ctx, encryptedQuery, queryProof)
	if err != nil {
		return false, fmt.Errorf("check availability %q: query ciphertext: %w", id, err)
	}
	if err := s.oracle.AuthorizeSelfAccess(ctx, queryHandle); err != nil {
		return false, fmt.Errorf("check availability %q: authorize query: %w", id, err)
	}

	before, err := s.oracle.LessThan(ctx, queryHandle, record.EncryptedStart)
	if err != nil {
		return false, fmt.Errorf("check availability %q: %w", id, err)
	}
	after, err := s.oracle.GreaterThan(ctx, queryHandle, record.EncryptedEnd)
	if err != nil {
		return false, fmt.Errorf("check availability %q: %w", id, err)
	}

	available := before || after

	s.bus.Publish(ctx, events.AvailabilityChecked{ID: id, Available: available})

	return available, nil
}

// Get returns the public-safe projection of a record.
func (s *RecordService) Get(ctx context.Context, id string) (models.RecordView, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.RecordView{}, fmt.Errorf("get record %q: %w", id, err)
	}
	return record.View(), nil
}

// ListIDs returns every record id in creation order.
func (s *RecordService) ListIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListIDs(ctx)
}

// Handles is the authenticated accessor for a record's two ciphertext
// handles, used by downstream reveal flows. Read-only.
func (s *RecordService) Handles(ctx context.Context, id string) (start, end oracle.Handle, err error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return oracle.Handle{}, oracle.Handle{}, fmt.Errorf("get handles %q: %w", id, err)
	}
	return record.EncryptedStart, record.EncryptedEnd, nil
}

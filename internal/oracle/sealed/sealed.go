package sealed

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/cryptox"
	"github.com/schedvault/schedvault/internal/oracle"
)

type entry struct {
	ciphertext []byte
	typ        oracle.HandleType
	selfAccess bool
	revealable bool
}

// Backend keeps registered ciphertexts keyed by handle ref, together with
// the capability bits granted on each handle. All methods are safe for
// concurrent use.
type Backend struct {
	mu       sync.RWMutex
	sealKey  []byte
	proofKey []byte
	handles  map[string]*entry
}

// New builds a backend from a 32-byte master key.
func New(masterKey []byte) (*Backend, error) {
	sealKey, proofKey, err := cryptox.ExpandKeys(masterKey)
	if err != nil {
		return nil, err
	}
	return &Backend{
		sealKey:  sealKey,
		proofKey: proofKey,
		handles:  make(map[string]*entry),
	}, nil
}

// NewFromPassphrase derives the master key from a passphrase and salt
// before building the backend.
func NewFromPassphrase(passphrase, salt []byte) (*Backend, error) {
	return New(cryptox.DeriveMasterKey(passphrase, salt))
}

// FromExternal checks the submitted ciphertext's well-formedness proof,
// opens it to confirm it decrypts to a 32-bit value, and registers it under
// a fresh handle. Rejections yield common.ErrorInvalidCiphertext.
func (b *Backend) FromExternal(ctx context.Context, ciphertext, proof []byte) (oracle.Handle, error) {
	if !cryptox.VerifyTag(b.proofKey, proof, ciphertext) {
		return oracle.Handle{}, fmt.Errorf("well-formedness proof: %w", common.ErrorInvalidCiphertext)
	}
	if _, err := cryptox.OpenUint32(b.sealKey, ciphertext); err != nil {
		return oracle.Handle{}, fmt.Errorf("open: %w", common.ErrorInvalidCiphertext)
	}

	h := oracle.Handle{Ref: uuid.NewString(), Type: oracle.HandleUint32}

	ct := make([]byte, len(ciphertext))
	copy(ct, ciphertext)

	b.mu.Lock()
	b.handles[h.Ref] = &entry{ciphertext: ct, typ: h.Type}
	b.mu.Unlock()

	return h, nil
}

// IsInitialized reports whether h refers to a registered ciphertext.
func (b *Backend) IsInitialized(ctx context.Context, h oracle.Handle) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handles[h.Ref]
	return ok
}

// AuthorizeSelfAccess grants the comparison capability on h.
func (b *Backend) AuthorizeSelfAccess(ctx context.Context, h oracle.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.handles[h.Ref]
	if !ok {
		return common.ErrorInvalidCiphertext
	}
	e.selfAccess = true
	return nil
}

// MarkPubliclyRevealable grants the reveal-verification capability on h.
func (b *Backend) MarkPubliclyRevealable(ctx context.Context, h oracle.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.handles[h.Ref]
	if !ok {
		return common.ErrorInvalidCiphertext
	}
	e.revealable = true
	return nil
}

// LessThan reports a < b. Operands are opened only inside this call; the
// cleartext values never leave the backend.
func (b *Backend) LessThan(ctx context.Context, x, y oracle.Handle) (bool, error) {
	vx, vy, err := b.openPair(x, y)
	if err != nil {
		return false, err
	}
	return vx < vy, nil
}

// GreaterThan reports a > b.
func (b *Backend) GreaterThan(ctx context.Context, x, y oracle.Handle) (bool, error) {
	vx, vy, err := b.openPair(x, y)
	if err != nil {
		return false, err
	}
	return vx > vy, nil
}

func (b *Backend) openPair(x, y oracle.Handle) (uint32, uint32, error) {
	b.mu.RLock()
	ex, okx := b.handles[x.Ref]
	ey, oky := b.handles[y.Ref]
	b.mu.RUnlock()

	if !okx || !oky {
		return 0, 0, common.ErrorInvalidCiphertext
	}
	if !ex.selfAccess || !ey.selfAccess {
		return 0, 0, common.ErrorNotAuthorized
	}

	vx, err := cryptox.OpenUint32(b.sealKey, ex.ciphertext)
	if err != nil {
		return 0, 0, common.ErrorInvalidCiphertext
	}
	vy, err := cryptox.OpenUint32(b.sealKey, ey.ciphertext)
	if err != nil {
		return 0, 0, common.ErrorInvalidCiphertext
	}
	return vx, vy, nil
}

// VerifyBatch checks every claimed cleartext against its handle's stored
// ciphertext. The check is all-or-nothing: a single bad proof rejects the
// whole batch and nothing is reported about the others.
func (b *Backend) VerifyBatch(ctx context.Context, handles []oracle.Handle, claimed [][]byte, proofs [][]byte) error {
	if len(handles) != len(claimed) || len(handles) != len(proofs) {
		return fmt.Errorf("batch shape mismatch: %w", common.ErrorProofRejected)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	ok := true
	for i, h := range handles {
		e, found := b.handles[h.Ref]
		if !found {
			return common.ErrorInvalidCiphertext
		}
		if !e.revealable {
			return common.ErrorNotAuthorized
		}
		// Every index is checked regardless of earlier failures so the
		// error carries no information about which proof failed. A claim
		// passes only if its tag is valid AND it matches the true
		// plaintext of the handle's ciphertext.
		if !cryptox.VerifyTag(b.proofKey, proofs[i], e.ciphertext, claimed[i]) {
			ok = false
			continue
		}
		truth, err := cryptox.OpenUint32(b.sealKey, e.ciphertext)
		if err != nil {
			ok = false
			continue
		}
		claimedValue, err := cryptox.DecodeUint32(claimed[i])
		if err != nil || claimedValue != truth {
			ok = false
		}
	}
	if !ok {
		return common.ErrorProofRejected
	}
	return nil
}

package oracle

import "context"

// HandleType tags the plaintext domain a handle ranges over.
type HandleType int

const (
	// HandleUint32 is an encrypted unsigned 32-bit value
	// (e.g. minute-of-day).
	HandleUint32 HandleType = iota
)

// Handle is an opaque, type-tagged reference to an encrypted value held by
// the oracle. The zero Handle refers to nothing and fails IsInitialized.
type Handle struct {
	Ref  string
	Type HandleType
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.Ref == ""
}

// CiphertextOracle registers external ciphertexts and evaluates blind
// comparisons over the resulting handles. Comparison results are cleartext
// booleans; no operand plaintext is ever exposed.
type CiphertextOracle interface {
	// FromExternal validates an externally produced ciphertext together
	// with its well-formedness proof and registers it, returning an opaque
	// handle. A ciphertext the backend cannot open or validate yields
	// common.ErrorInvalidCiphertext.
	FromExternal(ctx context.Context, ciphertext, proof []byte) (Handle, error)

	// IsInitialized reports whether h refers to a registered ciphertext.
	IsInitialized(ctx context.Context, h Handle) bool

	// LessThan reports a < b, evaluated without exposing either plaintext.
	// Both handles must have been granted self access.
	LessThan(ctx context.Context, a, b Handle) (bool, error)

	// GreaterThan reports a > b, evaluated without exposing either
	// plaintext. Both handles must have been granted self access.
	GreaterThan(ctx context.Context, a, b Handle) (bool, error)

	// AuthorizeSelfAccess grants the protocol the capability to use h in
	// comparisons. Required before LessThan/GreaterThan.
	AuthorizeSelfAccess(ctx context.Context, h Handle) error

	// MarkPubliclyRevealable grants the capability to later verify reveal
	// proofs against h. Required before ProofVerifier.VerifyBatch.
	MarkPubliclyRevealable(ctx context.Context, h Handle) error
}

// ProofVerifier checks that claimed cleartext values are the true plaintexts
// of the given handles. Positions across the three slices correspond
// index-for-index.
type ProofVerifier interface {
	// VerifyBatch is all-or-nothing: if any single proof fails, the whole
	// batch fails with common.ErrorProofRejected and the caller must treat
	// every claim as unverified.
	VerifyBatch(ctx context.Context, handles []Handle, claimed [][]byte, proofs [][]byte) error
}

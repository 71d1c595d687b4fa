package sealed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedvault/schedvault/internal/common"
	"github.com/schedvault/schedvault/internal/cryptox"
	"github.com/schedvault/schedvault/internal/oracle"
)

func newBackendPair(t *testing.T) (*Backend, *Encryptor) {
	t.Helper()
	master := cryptox.DeriveMasterKey([]byte("test-passphrase"), []byte("test-salt"))
	b, err := New(master)
	require.NoError(t, err)
	e, err := NewEncryptor(master)
	require.NoError(t, err)
	return b, e
}

func registerValue(t *testing.T, b *Backend, e *Encryptor, v uint32) oracle.Handle {
	t.Helper()
	ct, proof, err := e.Encrypt(v)
	require.NoError(t, err)
	h, err := b.FromExternal(context.Background(), ct, proof)
	require.NoError(t, err)
	require.NoError(t, b.AuthorizeSelfAccess(context.Background(), h))
	require.NoError(t, b.MarkPubliclyRevealable(context.Background(), h))
	return h
}

func TestFromExternal_RegistersValidCiphertext(t *testing.T) {
	b, e := newBackendPair(t)
	ctx := context.Background()

	ct, proof, err := e.Encrypt(540)
	require.NoError(t, err)

	h, err := b.FromExternal(ctx, ct, proof)
	require.NoError(t, err)
	assert.False(t, h.IsZero())
	assert.Equal(t, oracle.HandleUint32, h.Type)
	assert.True(t, b.IsInitialized(ctx, h))
}

func TestFromExternal_RejectsBadProof(t *testing.T) {
	b, e := newBackendPair(t)

	ct, _, err := e.Encrypt(540)
	require.NoError(t, err)

	_, err = b.FromExternal(context.Background(), ct, []byte("bogus"))
	require.ErrorIs(t, err, common.ErrorInvalidCiphertext)
}

func TestFromExternal_RejectsTamperedCiphertext(t *testing.T) {
	b, e := newBackendPair(t)

	ct, proof, err := e.Encrypt(540)
	require.NoError(t, err)
	ct[0] ^= 0x01

	_, err = b.FromExternal(context.Background(), ct, proof)
	require.ErrorIs(t, err, common.ErrorInvalidCiphertext)
}

func TestIsInitialized_UnknownHandle(t *testing.T) {
	b, _ := newBackendPair(t)
	assert.False(t, b.IsInitialized(context.Background(), oracle.Handle{Ref: "nope"}))
	assert.False(t, b.IsInitialized(context.Background(), oracle.Handle{}))
}

func TestComparisons(t *testing.T) {
	b, e := newBackendPair(t)
	ctx := context.Background()

	lo := registerValue(t, b, e, 540)
	hi := registerValue(t, b, e, 600)

	lt, err := b.LessThan(ctx, lo, hi)
	require.NoError(t, err)
	assert.True(t, lt)

	lt, err = b.LessThan(ctx, hi, lo)
	require.NoError(t, err)
	assert.False(t, lt)

	gt, err := b.GreaterThan(ctx, hi, lo)
	require.NoError(t, err)
	assert.True(t, gt)

	// equal values are neither less nor greater
	same := registerValue(t, b, e, 540)
	lt, err = b.LessThan(ctx, lo, same)
	require.NoError(t, err)
	assert.False(t, lt)
	gt, err = b.GreaterThan(ctx, lo, same)
	require.NoError(t, err)
	assert.False(t, gt)
}

func TestComparisons_RequireSelfAccess(t *testing.T) {
	b, e := newBackendPair(t)
	ctx := context.Background()

	ct, proof, err := e.Encrypt(540)
	require.NoError(t, err)
	unauthorized, err := b.FromExternal(ctx, ct, proof)
	require.NoError(t, err)

	authorized := registerValue(t, b, e, 600)

	_, err = b.LessThan(ctx, unauthorized, authorized)
	require.ErrorIs(t, err, common.ErrorNotAuthorized)
}

func TestComparisons_UnknownHandle(t *testing.T) {
	b, e := newBackendPair(t)
	h := registerValue(t, b, e, 540)

	_, err := b.LessThan(context.Background(), h, oracle.Handle{Ref: "nope"})
	require.ErrorIs(t, err, common.ErrorInvalidCiphertext)
}

func TestVerifyBatch_AllOrNothing(t *testing.T) {
	b, e := newBackendPair(t)
	ctx := context.Background()

	ctStart, proofStart, err := e.Encrypt(540)
	require.NoError(t, err)
	hStart, err := b.FromExternal(ctx, ctStart, proofStart)
	require.NoError(t, err)
	require.NoError(t, b.MarkPubliclyRevealable(ctx, hStart))

	ctEnd, proofEnd, err := e.Encrypt(600)
	require.NoError(t, err)
	hEnd, err := b.FromExternal(ctx, ctEnd, proofEnd)
	require.NoError(t, err)
	require.NoError(t, b.MarkPubliclyRevealable(ctx, hEnd))

	claimStart, revealStart := e.ProveReveal(ctStart, 540)
	claimEnd, revealEnd := e.ProveReveal(ctEnd, 600)

	// full valid batch passes
	err = b.VerifyBatch(ctx,
		[]oracle.Handle{hStart, hEnd},
		[][]byte{claimStart, claimEnd},
		[][]byte{revealStart, revealEnd})
	require.NoError(t, err)

	// a claim for a value that is not the true plaintext rejects the whole
	// batch even when its tag is well formed
	badClaim, badProof := e.ProveReveal(ctEnd, 601)
	err = b.VerifyBatch(ctx,
		[]oracle.Handle{hStart, hEnd},
		[][]byte{claimStart, badClaim},
		[][]byte{revealStart, badProof})
	require.ErrorIs(t, err, common.ErrorProofRejected)

	// a proof lifted from another handle rejects as well
	err = b.VerifyBatch(ctx,
		[]oracle.Handle{hStart, hEnd},
		[][]byte{claimStart, claimEnd},
		[][]byte{revealStart, revealStart})
	require.ErrorIs(t, err, common.ErrorProofRejected)

	// shape mismatch rejects
	err = b.VerifyBatch(ctx,
		[]oracle.Handle{hStart, hEnd},
		[][]byte{claimStart},
		[][]byte{revealStart, revealEnd})
	require.ErrorIs(t, err, common.ErrorProofRejected)
}

func TestVerifyBatch_RequiresRevealable(t *testing.T) {
	b, e := newBackendPair(t)
	ctx := context.Background()

	ct, proof, err := e.Encrypt(540)
	require.NoError(t, err)
	h, err := b.FromExternal(ctx, ct, proof)
	require.NoError(t, err)

	claimed, revealProof := e.ProveReveal(ct, 540)
	err = b.VerifyBatch(ctx, []oracle.Handle{h}, [][]byte{claimed}, [][]byte{revealProof})
	require.ErrorIs(t, err, common.ErrorNotAuthorized)
}

func TestCapabilityGrants_UnknownHandle(t *testing.T) {
	b, _ := newBackendPair(t)
	ctx := context.Background()

	err := b.AuthorizeSelfAccess(ctx, oracle.Handle{Ref: "nope"})
	require.ErrorIs(t, err, common.ErrorInvalidCiphertext)

	err = b.MarkPubliclyRevealable(ctx, oracle.Handle{Ref: "nope"})
	require.ErrorIs(t, err, common.ErrorInvalidCiphertext)
}

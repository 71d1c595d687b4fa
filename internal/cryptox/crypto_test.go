package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := DeriveMasterKey([]byte("passphrase"), salt)
	k2 := DeriveMasterKey([]byte("passphrase"), salt)
	k3 := DeriveMasterKey([]byte("other"), salt)

	assert.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestExpandKeys_IndependentKeys(t *testing.T) {
	master := DeriveMasterKey([]byte("p"), []byte("s"))

	sealKey, proofKey, err := ExpandKeys(master)
	require.NoError(t, err)

	assert.Len(t, sealKey, 32)
	assert.Len(t, proofKey, 32)
	assert.NotEqual(t, sealKey, proofKey)
}

func TestSealOpenUint32_RoundTrip(t *testing.T) {
	sealKey, _, err := ExpandKeys(DeriveMasterKey([]byte("p"), []byte("s")))
	require.NoError(t, err)

	for _, v := range []uint32{0, 9, 540, 1439, 0xFFFFFFFF} {
		ct, err := SealUint32(sealKey, v)
		require.NoError(t, err)

		got, err := OpenUint32(sealKey, ct)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestOpenUint32_RejectsTampered(t *testing.T) {
	sealKey, _, err := ExpandKeys(DeriveMasterKey([]byte("p"), []byte("s")))
	require.NoError(t, err)

	ct, err := SealUint32(sealKey, 540)
	require.NoError(t, err)

	ct[len(ct)-1] ^= 0x01
	_, err = OpenUint32(sealKey, ct)
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestOpenUint32_RejectsTruncated(t *testing.T) {
	sealKey, _, err := ExpandKeys(DeriveMasterKey([]byte("p"), []byte("s")))
	require.NoError(t, err)

	_, err = OpenUint32(sealKey, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestProofTag_VerifyTag(t *testing.T) {
	_, proofKey, err := ExpandKeys(DeriveMasterKey([]byte("p"), []byte("s")))
	require.NoError(t, err)

	ct := []byte("ciphertext")
	claimed := EncodeUint32(540)

	tag := ProofTag(proofKey, ct, claimed)
	assert.True(t, VerifyTag(proofKey, tag, ct, claimed))
	assert.False(t, VerifyTag(proofKey, tag, ct, EncodeUint32(541)))
	assert.False(t, VerifyTag(proofKey, []byte("bogus"), ct, claimed))
}

func TestEncodeDecodeUint32(t *testing.T) {
	b := EncodeUint32(540)
	v, err := DecodeUint32(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(540), v)

	_, err = DecodeUint32([]byte{1, 2, 3})
	require.Error(t, err)
}

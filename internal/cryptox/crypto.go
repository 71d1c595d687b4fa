// Package cryptox holds the symmetric primitives used by the sealed oracle
// backend: passphrase-based key derivation, HKDF key expansion, AES-GCM
// sealing of 32-bit scheduling values, and the HMAC proof tags binding a
// claimed cleartext to a specific ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12
	valueSize = 4
)

var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// DeriveMasterKey derives a 32-byte master key from a passphrase and salt
// using argon2id.
func DeriveMasterKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// ExpandKeys splits a master key into independent sealing and proof keys
// via HKDF-SHA256.
func ExpandKeys(masterKey []byte) (sealKey, proofKey []byte, err error) {
	r := hkdf.New(sha256.New, masterKey, nil, []byte("schedvault/v1"))

	sealKey = make([]byte, keySize)
	if _, err := io.ReadFull(r, sealKey); err != nil {
		return nil, nil, fmt.Errorf("hkdf seal key: %w", err)
	}

	proofKey = make([]byte, keySize)
	if _, err := io.ReadFull(r, proofKey); err != nil {
		return nil, nil, fmt.Errorf("hkdf proof key: %w", err)
	}

	return sealKey, proofKey, nil
}

// EncodeUint32 returns the canonical 4-byte big-endian encoding of v. This
// is the claimed-cleartext byte format the reveal protocol decodes.
func EncodeUint32(v uint32) []byte {
	b := make([]byte, valueSize)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// DecodeUint32 parses the canonical 4-byte big-endian encoding.
func DecodeUint32(b []byte) (uint32, error) {
	if len(b) != valueSize {
		return 0, fmt.Errorf("expected %d bytes, got %d", valueSize, len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// SealUint32 encrypts a 32-bit value with AES-GCM under key. The random
// 12-byte nonce is prepended to the returned ciphertext.
func SealUint32(key []byte, v uint32) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, EncodeUint32(v), nil), nil
}

// OpenUint32 decrypts a ciphertext produced by SealUint32. Any tampering or
// truncation yields ErrMalformedCiphertext.
func OpenUint32(key, ciphertext []byte) (uint32, error) {
	if len(ciphertext) <= nonceSize {
		return 0, ErrMalformedCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return 0, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return 0, err
	}

	plaintext, err := aesgcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return 0, ErrMalformedCiphertext
	}

	v, err := DecodeUint32(plaintext)
	if err != nil {
		return 0, ErrMalformedCiphertext
	}
	return v, nil
}

// ProofTag computes the HMAC-SHA256 tag binding message bytes (typically a
// ciphertext, optionally followed by a claimed cleartext) to the proof key.
func ProofTag(proofKey []byte, parts ...[]byte) []byte {
	mac := hmac.New(sha256.New, proofKey)
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil)
}

// VerifyTag reports whether tag is the valid proof tag for the given parts.
// The comparison is constant-time.
func VerifyTag(proofKey, tag []byte, parts ...[]byte) bool {
	return hmac.Equal(tag, ProofTag(proofKey, parts...))
}

// GenerateSalt returns n cryptographically random bytes.
func GenerateSalt(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

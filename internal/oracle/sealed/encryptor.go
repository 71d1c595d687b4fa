package sealed

import (
	"github.com/schedvault/schedvault/internal/cryptox"
)

// Encryptor is the submitter side of the sealed scheme. A party sharing the
// backend's master key uses it to produce ciphertexts, well-formedness
// proofs, and reveal proofs acceptable to the backend.
type Encryptor struct {
	sealKey  []byte
	proofKey []byte
}

// NewEncryptor builds an encryptor from the shared 32-byte master key.
func NewEncryptor(masterKey []byte) (*Encryptor, error) {
	sealKey, proofKey, err := cryptox.ExpandKeys(masterKey)
	if err != nil {
		return nil, err
	}
	return &Encryptor{sealKey: sealKey, proofKey: proofKey}, nil
}

// NewEncryptorFromPassphrase derives the master key from a passphrase and
// salt before building the encryptor.
func NewEncryptorFromPassphrase(passphrase, salt []byte) (*Encryptor, error) {
	return NewEncryptor(cryptox.DeriveMasterKey(passphrase, salt))
}

// Encrypt seals a 32-bit value and returns the ciphertext together with the
// well-formedness proof FromExternal expects.
func (e *Encryptor) Encrypt(v uint32) (ciphertext, proof []byte, err error) {
	ciphertext, err = cryptox.SealUint32(e.sealKey, v)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, cryptox.ProofTag(e.proofKey, ciphertext), nil
}

// ProveReveal produces the claimed-cleartext encoding of v and the proof
// binding it to the previously submitted ciphertext.
func (e *Encryptor) ProveReveal(ciphertext []byte, v uint32) (claimed, proof []byte) {
	claimed = cryptox.EncodeUint32(v)
	return claimed, cryptox.ProofTag(e.proofKey, ciphertext, claimed)
}

// Package oracle defines the two narrow interfaces the scheduling core uses
// to talk to the cryptographic backend: CiphertextOracle, which turns
// externally produced ciphertexts into opaque handles and evaluates blind
// comparisons over them, and ProofVerifier, which checks batches of
// cleartext claims against handles. The core never inspects cryptographic
// internals; backends are injected.
package oracle

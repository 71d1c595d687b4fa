// Package sealed implements oracle.CiphertextOracle and oracle.ProofVerifier
// on top of symmetric sealing. External ciphertexts are AES-GCM envelopes
// over 4-byte big-endian values; the backend holds the sealing key, opens
// operands only inside comparison calls, and checks reveal claims with
// HMAC proof tags. It stands in for an FHE coprocessor in tests, the demo
// CLI, and single-tenant deployments.
package sealed

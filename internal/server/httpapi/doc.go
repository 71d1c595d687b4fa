// Package httpapi exposes the scheduling core over HTTP: record creation
// and the authenticated handle accessor behind token auth, plus the public
// read, reveal, and availability endpoints. Byte fields (ciphertexts,
// proofs, claimed values) travel base64-encoded in JSON bodies.
package httpapi

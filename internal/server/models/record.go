// Package models defines the server-side data model for confidential
// scheduling records.
package models

import (
	"time"

	"github.com/schedvault/schedvault/internal/oracle"
)

// Record is one scheduling event. The start and end instants are held as
// opaque ciphertext handles; RevealedStart/RevealedEnd carry authenticated
// cleartext only once Verified is true. Verified transitions false→true at
// most once and is the sole authority on reveal state: a revealed value of
// zero (midnight) is legitimate and is never used to infer anything.
type Record struct {
	ID             string
	Title          string
	EncryptedStart oracle.Handle
	EncryptedEnd   oracle.Handle
	PublicDuration uint32
	Creator        string
	CreatedAt      time.Time
	RevealedStart  uint32
	RevealedEnd    uint32
	Verified       bool
}

// RecordView is the public-safe projection of a Record. It carries no
// ciphertext handles; those are served only through the authenticated
// handle accessor.
type RecordView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	PublicDuration uint32    `json:"public_duration"`
	Creator        string    `json:"creator"`
	CreatedAt      time.Time `json:"created_at"`
	Verified       bool      `json:"verified"`
	RevealedStart  uint32    `json:"revealed_start"`
	RevealedEnd    uint32    `json:"revealed_end"`
}

// View returns the public-safe projection of r.
func (r *Record) View() RecordView {
	return RecordView{
		ID:             r.ID,
		Title:          r.Title,
		PublicDuration: r.PublicDuration,
		Creator:        r.Creator,
		CreatedAt:      r.CreatedAt,
		Verified:       r.Verified,
		RevealedStart:  r.RevealedStart,
		RevealedEnd:    r.RevealedEnd,
	}
}

// Clone returns a deep copy so the store never leaks aliases to its
// authoritative state.
func (r *Record) Clone() *Record {
	c := *r
	return &c
}

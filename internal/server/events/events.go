// Package events defines the notification surface observed by external
// indexers: one event per state-changing or query operation, emitted
// fire-and-forget in operation order. The core never replays events.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/schedvault/schedvault/internal/logging"
)

// Event is a notification emitted by the scheduling core.
type Event interface {
	// Name identifies the event kind, e.g. "RecordCreated".
	Name() string
}

// RecordCreated is emitted after a record is successfully stored.
type RecordCreated struct {
	ID      string `json:"id"`
	Creator string `json:"creator"`
}

func (RecordCreated) Name() string { return "RecordCreated" }

// DecryptionVerified is emitted after a successful one-time reveal.
type DecryptionVerified struct {
	ID    string `json:"id"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

func (DecryptionVerified) Name() string { return "DecryptionVerified" }

// AvailabilityChecked is emitted for every availability query. It carries
// only the boolean result, never the compared value.
type AvailabilityChecked struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}

func (AvailabilityChecked) Name() string { return "AvailabilityChecked" }

// Bus receives events from the core. Publish must not fail the emitting
// operation; sinks swallow their own delivery problems.
type Bus interface {
	Publish(ctx context.Context, e Event)
}

// NopBus discards all events.
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) {}

// LogBus writes each event to the structured log.
type LogBus struct {
	log logging.Logger
}

func NewLogBus(log logging.Logger) *LogBus {
	return &LogBus{log: log.With("module", "events")}
}

func (b *LogBus) Publish(ctx context.Context, e Event) {
	switch ev := e.(type) {
	case RecordCreated:
		b.log.Info(ctx, ev.Name(), "id", ev.ID, "creator", ev.Creator)
	case DecryptionVerified:
		b.log.Info(ctx, ev.Name(), "id", ev.ID, "start", ev.Start, "end", ev.End)
	case AvailabilityChecked:
		b.log.Info(ctx, ev.Name(), "id", ev.ID, "available", ev.Available)
	default:
		b.log.Info(ctx, ev.Name())
	}
}

// JournalEntry is an event together with the time it was published.
type JournalEntry struct {
	At    time.Time `json:"at"`
	Kind  string    `json:"kind"`
	Event Event     `json:"event"`
}

// Journal buffers published events in order, for tests and for the S3
// archiver to drain.
type Journal struct {
	mu      sync.Mutex
	entries []JournalEntry
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Publish(ctx context.Context, e Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, JournalEntry{At: time.Now(), Kind: e.Name(), Event: e})
}

// Snapshot returns a copy of the buffered entries in publish order.
func (j *Journal) Snapshot() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JournalEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Drain returns the buffered entries and clears the journal.
func (j *Journal) Drain() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.entries
	j.entries = nil
	return out
}

// Requeue puts previously drained entries back in front of anything
// published since, preserving overall order. Used when an archive flush
// fails and the entries must not be lost.
func (j *Journal) Requeue(entries []JournalEntry) {
	if len(entries) == 0 {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(entries, j.entries...)
}

// MultiBus fans each event out to every sink in order.
type MultiBus []Bus

func (m MultiBus) Publish(ctx context.Context, e Event) {
	for _, b := range m {
		b.Publish(ctx, e)
	}
}

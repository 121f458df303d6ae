// Package repositories implements SQLite persistence for the run journal.
//
// Key Implementations:
//   - [RunRepository] : Journaled runs and the disc image entries each run touched
//   - [JournalAdapter] : Adapts [RunRepository] to the organizer's journal interface
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

// Package models defines the entities derived from a disc image directory and the journal records kept about runs.
//
// The package contains two categories of types:
//
// 1. Run entities: Derived fresh from a directory listing on every run
//   - [DiscMatch] : A filename that carries a "(Disc N)" marker
//   - [SeriesGroup] : All discs of one title, ordered by disc index
//   - [RenamedEntry] : The outcome of prefixing one disc image
//   - [PlaylistFile] : The M3U written for one series
//   - [RunResult] : Everything a single run did
//
// 2. Journal records: Persisted when the run journal is enabled
//   - [Run] : One journaled run with its counters
//   - [RunEntry] : One disc image touched by a journaled run
package models

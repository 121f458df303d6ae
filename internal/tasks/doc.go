// Package tasks organizes multi-disc image directories into playlists.
//
// # Core Operations
//
// [Organizer] exposes four operations:
//
//  1. [Organizer.Run] : Process a directory
//     - Lists regular files and matches "(Disc N)" names
//     - Groups discs by series and orders them by disc index
//     - Prefixes each disc image, skipping names already prefixed
//     - Writes one playlist per series with the prefixed names
//
//  2. [Organizer.Plan] : Compute what Run would do without touching the filesystem
//
//  3. [Organizer.Undo] : Revert a journaled run
//     - Renames prefixed files back to their original names
//     - Removes playlists the run created, when unchanged since
//
//  4. [Organizer.Watch] : Run once, then again whenever new disc images appear
//
// # Failure Semantics
//
// Only directory-level failures abort a run. A failed rename or playlist write is
// logged, recorded on the [models.RunResult] and processing continues with the next
// disc or series. A directory without disc sets is a successful run with
// [models.RunResult.NoMatches] set.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate] values. Sends never block:
// an update is dropped when the channel is full.
//
// # Journal
//
// The optional [Journal] records each run so it can be listed and undone later.
// Journal failures are logged and never fail the run itself.
package tasks

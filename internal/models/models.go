package models

import (
	"time"
)

// DiscMatch is a filename recognized as one disc of a multi-disc title.
type DiscMatch struct {
	SeriesKey    string // Text before the disc marker, whitespace-trimmed
	DiscIndex    int    // Number inside the disc marker
	OriginalName string // Filename without the playlist prefix
}

// SeriesGroup holds every disc of one series, sorted ascending by DiscIndex.
type SeriesGroup struct {
	SeriesKey string
	Discs     []DiscMatch
}

// RenameStatus is the outcome of renaming a single disc image.
type RenameStatus string

const (
	StatusPlanned RenameStatus = "planned" // Dry run, nothing touched
	StatusRenamed RenameStatus = "renamed" // File was renamed by this run
	StatusSkipped RenameStatus = "skipped" // Prefixed name already existed
	StatusFailed  RenameStatus = "failed"  // Rename returned an error
)

// RenamedEntry pairs an original filename with its prefixed name.
type RenamedEntry struct {
	SeriesKey    string
	DiscIndex    int
	OriginalName string
	NewName      string
	Status       RenameStatus
	Err          error
}

// PlaylistFile is the playlist written for one series.
type PlaylistFile struct {
	SeriesKey string
	Name      string   // "<series_key>.m3u"
	Path      string   // Absolute or directory-relative location
	Entries   []string // Prefixed filenames in disc order
	Err       error    // Set when writing the file failed
}

// RunResult summarizes one organizer run over a directory.
type RunResult struct {
	RunID     string // Journal run ID, empty when the journal is disabled
	Directory string
	DryRun    bool
	NoMatches bool
	Groups    []SeriesGroup
	Entries   []RenamedEntry
	Playlists []PlaylistFile
	Renamed   int
	Skipped   int
	Failed    int
	Created   int // Playlists written successfully
}

// Failures returns the entries whose rename failed.
func (r *RunResult) Failures() []RenamedEntry {
	var failed []RenamedEntry
	for _, e := range r.Entries {
		if e.Status == StatusFailed {
			failed = append(failed, e)
		}
	}
	return failed
}

// Run is a journaled organizer run.
type Run struct {
	ID        string
	Sequence  int
	Directory string
	Playlists int
	Renamed   int
	Skipped   int
	Failed    int
	CreatedAt time.Time
	UndoneAt  *time.Time
	Entries   []RunEntry
}

// Undone reports whether the run was already reverted.
func (r *Run) Undone() bool { return r.UndoneAt != nil }

// RunEntry is one disc image recorded in the journal.
type RunEntry struct {
	ID           string
	RunID        string
	Position     int
	SeriesKey    string
	DiscIndex    int
	OriginalName string
	NewName      string
	Playlist     string // Playlist filename the entry was listed in
	Status       RenameStatus
	Error        string
}

// ToRun converts a result into an unsaved journal [Run]; IDs and timestamps are left for the store to assign.
//
// Every entry is kept, including skipped and failed ones, in the order the run processed them.
func (r *RunResult) ToRun() *Run {
	playlistOf := make(map[string]string, len(r.Playlists))
	for _, pl := range r.Playlists {
		playlistOf[pl.SeriesKey] = pl.Name
	}

	run := &Run{
		Directory: r.Directory,
		Playlists: r.Created,
		Renamed:   r.Renamed,
		Skipped:   r.Skipped,
		Failed:    r.Failed,
		Entries:   make([]RunEntry, 0, len(r.Entries)),
	}

	for i, e := range r.Entries {
		entry := RunEntry{
			Position:     i,
			SeriesKey:    e.SeriesKey,
			DiscIndex:    e.DiscIndex,
			OriginalName: e.OriginalName,
			NewName:      e.NewName,
			Playlist:     playlistOf[e.SeriesKey],
			Status:       e.Status,
		}
		if e.Err != nil {
			entry.Error = e.Err.Error()
		}
		run.Entries = append(run.Entries, entry)
	}

	return run
}

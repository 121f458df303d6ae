package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Directory errors
	ErrInvalidDirectory = fmt.Errorf("not a directory")
	ErrDirectoryRead    = fmt.Errorf("failed to read directory")

	// Per-file errors, recorded and reported without aborting a run
	ErrRename        = fmt.Errorf("rename failed")
	ErrPlaylistWrite = fmt.Errorf("playlist write failed")

	// Journal errors
	ErrJournalUnavailable = fmt.Errorf("journal unavailable")
	ErrRunNotFound        = fmt.Errorf("run not found")
	ErrNothingToUndo      = fmt.Errorf("nothing to undo")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

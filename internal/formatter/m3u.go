// package formatter renders playlists and run reports (M3U, plain text, JSON, Markdown)
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// RenderM3U returns entries one per line, each terminated by "\n".
//
// Entries are written verbatim as UTF-8; no "#EXTM3U" header is emitted so front-ends that
// expect a bare disc list (muOS, RetroArch) read the file unchanged.
func RenderM3U(entries []string) []byte {
	var buf bytes.Buffer
	for _, entry := range entries {
		buf.WriteString(entry)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// PlaylistName returns "<seriesKey><ext>".
func PlaylistName(seriesKey, ext string) string {
	return seriesKey + ext
}

// WritePlaylist writes entries to dir/name, replacing any existing file.
//
// The content goes to a temporary file in the same directory first and is then renamed into place,
// so an interrupted write never leaves a truncated playlist behind. The temporary name is fixed-length
// so any name that fits the filesystem can be written.
func WritePlaylist(dir, name string, entries []string) (string, error) {
	dst := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".chdm3u-*.tmp")
	if err != nil {
		return dst, fmt.Errorf("failed to create temporary playlist: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(RenderM3U(entries)); err != nil {
		return dst, fmt.Errorf("failed to write playlist: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil && runtime.GOOS != "windows" {
		return dst, fmt.Errorf("failed to set playlist permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return dst, fmt.Errorf("failed to close playlist: %w", err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return dst, fmt.Errorf("failed to move playlist into place: %w", err)
	}

	return dst, nil
}

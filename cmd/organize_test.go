package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/desertthunder/chdm3u/internal/shared"
	tu "github.com/desertthunder/chdm3u/internal/testing"
	"github.com/google/go-cmp/cmp"
)

func newTestRunner(t *testing.T, input string) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Input:  strings.NewReader(input),
	})
	return runner, output
}

func runApp(r *Runner, args ...string) error {
	return rootCommand(r).Run(context.Background(), append([]string{"chdm3u"}, args...))
}

func TestOrganize(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		dir := filepath.Join(t.TempDir(), "missing")

		err := runApp(runner, dir)
		if !errors.Is(err, shared.ErrInvalidDirectory) {
			t.Fatalf("expected ErrInvalidDirectory, got %v", err)
		}
		tu.AssertNotExists(t, dir)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd")

		err := runApp(runner, filepath.Join(dir, "Foo (Disc 1).chd"))
		if !errors.Is(err, shared.ErrInvalidDirectory) {
			t.Fatalf("expected ErrInvalidDirectory, got %v", err)
		}
		if diff := cmp.Diff([]string{"Foo (Disc 1).chd"}, tu.MustList(t, dir)); diff != "" {
			t.Errorf("directory changed (-want +got):\n%s", diff)
		}
	})

	t.Run("two disc game", func(t *testing.T) {
		runner, output := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 2).chd", "Foo (Disc 1).chd")

		if err := runApp(runner, dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"Foo.m3u", "_Foo (Disc 1).chd", "_Foo (Disc 2).chd"}
		if diff := cmp.Diff(want, tu.MustList(t, dir)); diff != "" {
			t.Errorf("directory mismatch (-want +got):\n%s", diff)
		}

		if got := tu.MustReadFile(t, filepath.Join(dir, "Foo.m3u")); got != "_Foo (Disc 1).chd\n_Foo (Disc 2).chd\n" {
			t.Errorf("unexpected playlist %q", got)
		}

		out := output.String()
		for _, line := range []string{
			"Processing files in: " + dir,
			"Renamed: Foo (Disc 1).chd -> _Foo (Disc 1).chd",
			"Renamed: Foo (Disc 2).chd -> _Foo (Disc 2).chd",
			"Created playlist: " + filepath.Join(dir, "Foo.m3u") + " with 2 disc(s) for 'Foo'",
			"Total: Created 1 playlist(s)",
		} {
			if !strings.Contains(out, line) {
				t.Errorf("expected output to contain %q, got:\n%s", line, out)
			}
		}
		if strings.Contains(out, "Press Enter") {
			t.Error("non-interactive run should not pause")
		}
	})

	t.Run("organize subcommand", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Bar (Disc 1).chd", "Bar (Disc 2).chd")

		if err := runApp(runner, "organize", dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "Bar.m3u"))
	})

	t.Run("no matches", func(t *testing.T) {
		runner, output := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "readme.txt", "Foo.chd")

		if err := runApp(runner, dir); err != nil {
			t.Fatalf("no matches should succeed, got %v", err)
		}
		if !strings.Contains(output.String(), "No multi-disc files found") {
			t.Errorf("expected no matches message, got %q", output.String())
		}
		if diff := cmp.Diff([]string{"Foo.chd", "readme.txt"}, tu.MustList(t, dir)); diff != "" {
			t.Errorf("directory changed (-want +got):\n%s", diff)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		runner, output := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")

		if err := runApp(runner, "--dry-run", dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff([]string{"Foo (Disc 1).chd", "Foo (Disc 2).chd"}, tu.MustList(t, dir)); diff != "" {
			t.Errorf("dry run changed the directory (-want +got):\n%s", diff)
		}
		out := output.String()
		if !strings.Contains(out, "Would rename: Foo (Disc 1).chd -> _Foo (Disc 1).chd") {
			t.Errorf("expected planned rename, got:\n%s", out)
		}
		if !strings.Contains(out, "Total: Would create 1 playlist(s)") {
			t.Errorf("expected planned total, got:\n%s", out)
		}
	})

	t.Run("json report", func(t *testing.T) {
		runner, output := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd", "Bar (Disc 1).chd")

		if err := runApp(runner, "--report", "json", dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var report struct {
			Created   int `json:"playlists_created"`
			Renamed   int `json:"renamed"`
			Playlists []struct {
				Series string `json:"series"`
			} `json:"playlists"`
		}
		if err := json.Unmarshal(output.Bytes(), &report); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, output.String())
		}
		if report.Created != 2 || report.Renamed != 3 {
			t.Errorf("unexpected counts: %+v", report)
		}
		if len(report.Playlists) != 2 || report.Playlists[0].Series != "Bar" {
			t.Errorf("unexpected playlists: %+v", report.Playlists)
		}
	})

	t.Run("unknown report format", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd")

		if err := runApp(runner, "--report", "xml", dir); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag for unknown report format, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "Foo (Disc 1).chd"))
	})

	t.Run("rerun is idempotent", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")

		if err := runApp(runner, dir); err != nil {
			t.Fatalf("first run: %v", err)
		}
		first := tu.MustReadFile(t, filepath.Join(dir, "Foo.m3u"))

		if err := runApp(runner, dir); err != nil {
			t.Fatalf("second run: %v", err)
		}
		if second := tu.MustReadFile(t, filepath.Join(dir, "Foo.m3u")); second != first {
			t.Errorf("playlist changed on rerun: %q != %q", second, first)
		}

		want := []string{"Foo.m3u", "_Foo (Disc 1).chd", "_Foo (Disc 2).chd"}
		if diff := cmp.Diff(want, tu.MustList(t, dir)); diff != "" {
			t.Errorf("directory mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestOrganizeInteractive(t *testing.T) {
	banner := "Disc Playlist Creator\nCreates m3u for multi-disc games for use in muOS\n"

	t.Run("invalid directory pauses", func(t *testing.T) {
		runner, output := newTestRunner(t, "\n")
		dir := filepath.Join(t.TempDir(), "missing")

		err := runApp(runner, "-i", dir)
		if !errors.Is(err, shared.ErrInvalidDirectory) {
			t.Fatalf("expected ErrInvalidDirectory, got %v", err)
		}

		out := output.String()
		if !strings.Contains(out, banner) {
			t.Errorf("expected banner, got:\n%s", out)
		}
		if !strings.Contains(out, "Error: '"+dir+"' is not a valid directory") {
			t.Errorf("expected invalid directory message, got:\n%s", out)
		}
		if !strings.HasSuffix(out, "\nPress Enter to exit...") {
			t.Errorf("expected pause prompt, got:\n%s", out)
		}
	})

	t.Run("confirmed session", func(t *testing.T) {
		runner, output := newTestRunner(t, "\n")
		runner.interactive = func(ctx context.Context, dir string) (*models.RunResult, error) {
			return runner.organizer.Run(ctx, dir, nil)
		}

		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")

		if err := runApp(runner, "--interactive", dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if !strings.Contains(out, banner) {
			t.Errorf("expected banner, got:\n%s", out)
		}
		if !strings.Contains(out, "Total: Created 1 playlist(s)") {
			t.Errorf("expected summary, got:\n%s", out)
		}
		if !strings.HasSuffix(out, "\nPress Enter to exit...") {
			t.Errorf("expected pause prompt, got:\n%s", out)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "Foo.m3u"))
	})

	t.Run("cancelled session", func(t *testing.T) {
		runner, output := newTestRunner(t, "\n")
		runner.interactive = func(ctx context.Context, dir string) (*models.RunResult, error) {
			return nil, nil
		}

		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")

		if err := runApp(runner, "-i", dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Cancelled, nothing was changed") {
			t.Errorf("expected cancel message, got:\n%s", output.String())
		}
		tu.AssertNotExists(t, filepath.Join(dir, "Foo.m3u"))
	})

	t.Run("interrupted session reports the partial run", func(t *testing.T) {
		runner, output := newTestRunner(t, "\n")
		runner.interactive = func(ctx context.Context, dir string) (*models.RunResult, error) {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			return runner.organizer.Run(cctx, dir, nil)
		}

		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")

		err := runApp(runner, "-i", dir)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}

		out := output.String()
		if strings.Contains(out, "Cancelled, nothing was changed") {
			t.Errorf("interrupted run must not be reported as cancelled before confirming:\n%s", out)
		}
		if !strings.Contains(out, "Total:") {
			t.Errorf("expected partial report, got:\n%s", out)
		}
		if !strings.HasSuffix(out, "\nPress Enter to exit...") {
			t.Errorf("expected pause prompt, got:\n%s", out)
		}
	})

	t.Run("default directory is the working directory", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustChdir(t, dir)

		got, err := resolveDir("", true)
		if err != nil {
			t.Fatalf("resolveDir: %v", err)
		}
		if got != tu.MustGetwd(t) {
			t.Errorf("expected %s, got %s", dir, got)
		}

		if got, _ := resolveDir("", false); got != "." {
			t.Errorf("expected . for non-interactive default, got %s", got)
		}
		if got, _ := resolveDir("games", true); got != "games" {
			t.Errorf("expected explicit directory, got %s", got)
		}
	})
}

func TestJournalCommands(t *testing.T) {
	runner, output := newTestRunner(t, "")
	dir := t.TempDir()
	tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd", "_Foo (Disc 2).chd")

	if err := runApp(runner, "--journal", dir); err != nil {
		t.Fatalf("journaled run: %v", err)
	}

	output.Reset()
	if err := runApp(runner, "history"); err != nil {
		t.Fatalf("history: %v", err)
	}
	if out := output.String(); !strings.Contains(out, "#1 ") || !strings.Contains(out, "renamed: 1, skipped: 1") {
		t.Errorf("unexpected history:\n%s", out)
	}

	output.Reset()
	if err := runApp(runner, "history", "--json"); err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var runs []historyEntry
	if err := json.Unmarshal(output.Bytes(), &runs); err != nil {
		t.Fatalf("history output is not JSON: %v", err)
	}
	if len(runs) != 1 || runs[0].Renamed != 1 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	output.Reset()
	if err := runApp(runner, "undo"); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if out := output.String(); !strings.Contains(out, "Restored: _Foo (Disc 1).chd -> Foo (Disc 1).chd") || !strings.Contains(out, "Removed playlist: Foo.m3u") {
		t.Errorf("unexpected undo output:\n%s", out)
	}

	want := []string{"Foo (Disc 1).chd", "Foo (Disc 2).chd", "_Foo (Disc 2).chd"}
	if diff := cmp.Diff(want, tu.MustList(t, dir)); diff != "" {
		t.Errorf("directory after undo (-want +got):\n%s", diff)
	}

	if err := runApp(runner, "undo", runs[0].ID); !errors.Is(err, shared.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestJournalUnavailable(t *testing.T) {
	unreachable := func(t *testing.T) string {
		blocker := filepath.Join(t.TempDir(), "blocker")
		tu.MustWriteFile(t, blocker, "")
		return filepath.Join(blocker, "journal.db")
	}

	t.Run("enabled in config continues unrecorded", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		runner.config.Journal.Enabled = true
		runner.config.Journal.Path = unreachable(t)

		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")

		if err := runApp(runner, dir); err != nil {
			t.Fatalf("run should not fail when the configured journal is unavailable: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "Foo.m3u"))
		tu.AssertFileExists(t, filepath.Join(dir, "_Foo (Disc 1).chd"))
	})

	t.Run("requested by flag fails before renaming", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		runner.config.Journal.Path = unreachable(t)

		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd")

		if err := runApp(runner, "--journal", dir); !errors.Is(err, shared.ErrJournalUnavailable) {
			t.Fatalf("expected ErrJournalUnavailable, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "Foo (Disc 1).chd"))
	})
}

func TestOutputErrors(t *testing.T) {
	failingRunner := func(t *testing.T) *Runner {
		config := shared.DefaultConfig()
		config.Journal.Path = filepath.Join(t.TempDir(), "journal.db")
		return NewRunner(RunnerOpts{
			Config: config,
			Logger: shared.NewLogger(io.Discard),
			Output: &tu.FWriter{},
		})
	}

	t.Run("history", func(t *testing.T) {
		runner := failingRunner(t)
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd", "Foo (Disc 2).chd")
		if _, err := runner.openJournal(); err != nil {
			t.Fatalf("openJournal: %v", err)
		}
		if _, err := runner.organizer.Run(context.Background(), dir, nil); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if err := runApp(runner, "history"); err == nil {
			t.Error("expected history to report the write failure")
		}
	})

	t.Run("setup database", func(t *testing.T) {
		if err := runApp(failingRunner(t), "setup", "database"); err == nil {
			t.Error("expected setup database to report the write failure")
		}
	})

	t.Run("organize", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustTouch(t, dir, "Foo (Disc 1).chd")

		if err := runApp(failingRunner(t), dir); err == nil {
			t.Error("expected organize to report the write failure")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		path := filepath.Join(t.TempDir(), "chdm3u.toml")

		if err := runApp(runner, "--config", path, "setup", "config"); err != nil {
			t.Fatalf("setup config: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := runApp(runner, "--config", path, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")

		if err := runApp(runner, "setup", "database"); err != nil {
			t.Fatalf("setup database: %v", err)
		}
		tu.AssertFileExists(t, runner.config.Journal.Path)
	})

	t.Run("invalid config", func(t *testing.T) {
		runner, _ := newTestRunner(t, "")
		path := filepath.Join(t.TempDir(), "chdm3u.toml")
		tu.MustWriteFile(t, path, "[organizer]\nprefix = \"\"\n")

		err := runApp(runner, "--config", path, t.TempDir())
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

package discset

import (
	"testing"

	"github.com/desertthunder/chdm3u/internal/models"
	"github.com/google/go-cmp/cmp"
)

func names(g models.SeriesGroup) []string {
	out := make([]string, 0, len(g.Discs))
	for _, d := range g.Discs {
		out = append(out, d.OriginalName)
	}
	return out
}

func TestGroup(t *testing.T) {
	m := NewMatcher("", "")

	t.Run("sorts discs ascending regardless of listing order", func(t *testing.T) {
		groups := Group(m.MatchAll([]string{
			"Foo (Disc 10).chd",
			"Foo (Disc 2).chd",
			"Foo (Disc 1).chd",
		}))

		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}

		want := []string{"Foo (Disc 1).chd", "Foo (Disc 2).chd", "Foo (Disc 10).chd"}
		if diff := cmp.Diff(want, names(groups[0])); diff != "" {
			t.Errorf("disc order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("keeps first-encounter series order", func(t *testing.T) {
		groups := Group(m.MatchAll([]string{
			"Bar (Disc 1).chd",
			"Foo (Disc 1).chd",
			"Bar (Disc 2).chd",
			"Foo (Disc 2).chd",
		}))

		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if groups[0].SeriesKey != "Bar" || groups[1].SeriesKey != "Foo" {
			t.Errorf("unexpected series order: %s, %s", groups[0].SeriesKey, groups[1].SeriesKey)
		}
		for _, g := range groups {
			if len(g.Discs) != 2 {
				t.Errorf("series %s: expected 2 discs, got %d", g.SeriesKey, len(g.Discs))
			}
		}
	})

	t.Run("ties keep encounter order", func(t *testing.T) {
		groups := Group(m.MatchAll([]string{
			"Foo (Disc 2) (Alt).chd",
			"Foo (Disc 1).chd",
			"Foo (Disc 2).chd",
		}))

		want := []string{"Foo (Disc 1).chd", "Foo (Disc 2) (Alt).chd", "Foo (Disc 2).chd"}
		if diff := cmp.Diff(want, names(groups[0])); diff != "" {
			t.Errorf("tie order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("raw and prefixed copies collapse", func(t *testing.T) {
		groups := Group(m.MatchAll([]string{
			"Foo (Disc 1).chd",
			"_Foo (Disc 1).chd",
			"_Foo (Disc 2).chd",
		}))

		want := []string{"Foo (Disc 1).chd", "Foo (Disc 2).chd"}
		if diff := cmp.Diff(want, names(groups[0])); diff != "" {
			t.Errorf("dedupe mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no matches yields no groups", func(t *testing.T) {
		if groups := Group(nil); len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})
}

package discset

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/desertthunder/chdm3u/internal/models"
)

const (
	DefaultPrefix    = "_"
	DefaultExtension = ".chd"
)

// Matcher extracts [models.DiscMatch] values from filenames.
type Matcher struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewMatcher builds a Matcher for names ending in ext whose processed form starts with prefix.
//
// Empty arguments fall back to [DefaultPrefix] and [DefaultExtension].
func NewMatcher(prefix, ext string) *Matcher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ext == "" {
		ext = DefaultExtension
	}
	return &Matcher{
		prefix:  prefix,
		pattern: regexp.MustCompile(`(?i)^(.*?)\(Disc\s+(\d+)\)(.*?)` + regexp.QuoteMeta(ext) + `$`),
	}
}

// Prefix returns the marker prepended to grouped filenames.
func (m *Matcher) Prefix() string { return m.prefix }

// NewName returns the prefixed form of original.
func (m *Matcher) NewName(original string) string {
	return m.prefix + original
}

// IsPrefixed reports whether name already carries the prefix.
func (m *Matcher) IsPrefixed(name string) bool {
	return strings.HasPrefix(name, m.prefix)
}

// Match parses name. The boolean is false for names that are not part of a disc set,
// including names with an empty series key or a disc number that does not fit an int.
//
// A name that already starts with the prefix is reported with the prefix removed
// from OriginalName.
func (m *Matcher) Match(name string) (models.DiscMatch, bool) {
	original := name
	if m.IsPrefixed(name) {
		original = strings.TrimPrefix(name, m.prefix)
	}

	groups := m.pattern.FindStringSubmatch(original)
	if groups == nil {
		return models.DiscMatch{}, false
	}

	key := strings.TrimSpace(groups[1])
	if key == "" {
		return models.DiscMatch{}, false
	}

	index, err := strconv.Atoi(groups[2])
	if err != nil {
		return models.DiscMatch{}, false
	}

	return models.DiscMatch{
		SeriesKey:    key,
		DiscIndex:    index,
		OriginalName: original,
	}, true
}

// MatchAll returns the matches among names, in the order given.
func (m *Matcher) MatchAll(names []string) []models.DiscMatch {
	var matches []models.DiscMatch
	for _, name := range names {
		if dm, ok := m.Match(name); ok {
			matches = append(matches, dm)
		}
	}
	return matches
}

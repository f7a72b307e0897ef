package finder

import (
	"fmt"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// matcher is a compiled include/exclude glob filter. Patterns are validated
// and NFC-normalized once per invocation so candidates are matched without
// re-parsing.
type matcher struct {
	include  string
	excludes []string
}

// compileMatcher validates the glob patterns up front. A malformed pattern
// is an invocation-level failure, surfaced before any walking happens.
// An empty include pattern matches everything.
func compileMatcher(include string, excludes []string) (*matcher, error) {
	m := &matcher{}
	if include != "" {
		include = norm.NFC.String(include)
		if _, err := filepath.Match(include, "probe"); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
		m.include = include
	}
	for _, p := range excludes {
		if p == "" {
			continue
		}
		p = norm.NFC.String(p)
		if _, err := filepath.Match(p, "probe"); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		m.excludes = append(m.excludes, p)
	}
	return m, nil
}

// matches decides whether a candidate is retained. Matching is against the
// base name only, never the full path. A candidate is retained when it
// matches the include pattern and none of the exclude patterns.
func (m *matcher) matches(name string) bool {
	name = norm.NFC.String(name)
	if m.include != "" {
		ok, err := filepath.Match(m.include, name)
		if err != nil || !ok {
			return false
		}
	}
	for _, p := range m.excludes {
		if ok, _ := filepath.Match(p, name); ok {
			return false
		}
	}
	return true
}

package episode

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSlug splits an episode slug of the form {show}-s{season}-e{episode}.
// The last "-e" marker and the last "-s" marker before it are used, so show
// slugs containing "-s" or "-e" parse correctly.
func ParseSlug(slug string) (show string, season, episode int, err error) {
	e := strings.LastIndex(slug, "-e")
	if e < 0 {
		return "", 0, 0, fmt.Errorf("slug %q: missing episode marker: %w", slug, ErrInvalidFormat)
	}
	s := strings.LastIndex(slug[:e], "-s")
	if s < 0 {
		return "", 0, 0, fmt.Errorf("slug %q: missing season marker: %w", slug, ErrInvalidFormat)
	}
	show = slug[:s]
	if show == "" {
		return "", 0, 0, fmt.Errorf("slug %q: empty show slug: %w", slug, ErrInvalidFormat)
	}
	if season, err = parseNumber(slug[s+2 : e]); err != nil {
		return "", 0, 0, fmt.Errorf("slug %q: season: %w", slug, err)
	}
	if episode, err = parseNumber(slug[e+2:]); err != nil {
		return "", 0, 0, fmt.Errorf("slug %q: episode: %w", slug, err)
	}
	return show, season, episode, nil
}

// parseNumber accepts only non-empty runs of ASCII digits.
func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number: %w", ErrInvalidFormat)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a number: %w", s, ErrInvalidFormat)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q out of range: %w", s, ErrInvalidFormat)
	}
	return n, nil
}

package library

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EpisodeSlug builds the slug of an episode: {showSlug}-s{season}-e{episode}.
func EpisodeSlug(showSlug string, season, episode int) string {
	return fmt.Sprintf("%s-s%d-e%d", showSlug, season, episode)
}

// Slugify lowercases s, strips accents and joins alphanumeric runs with dashes.
// "Léon: The Professional" becomes "leon-the-professional".
func Slugify(s string) string {
	s = strings.ToLower(removeAccents(s))

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		if r == '\'' {
			continue
		}
		dash = true
	}
	return b.String()
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

package util

import (
	"fmt"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	slugAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	slugSuffixLength = 8
	slugBaseMaxRunes = 120
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// Slugify lowercases s and collapses everything but letters and digits into
// single hyphens. Non-latin letters are kept.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if runes := []rune(slug); len(runes) > slugBaseMaxRunes {
		slug = strings.TrimRight(string(runes[:slugBaseMaxRunes]), "-")
	}
	return slug
}

// TripSlug builds a public trip slug: the slugified title plus a random suffix,
// e.g. "jade-mountain-day-2-k3v9x0qa"
func TripSlug(title string) (string, error) {
	suffix, err := gonanoid.Generate(slugAlphabet, slugSuffixLength)
	if err != nil {
		return "", fmt.Errorf("generate slug suffix: %w", err)
	}

	base := Slugify(title)
	if base == "" {
		base = "trip"
	}
	return base + "-" + suffix, nil
}

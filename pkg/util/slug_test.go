package util

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jade Mountain Day 2", "jade-mountain-day-2"},
		{"  --Hello,   World!!--  ", "hello-world"},
		{"玉山 主峰", "玉山-主峰"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_TruncatesLongTitles(t *testing.T) {
	slug := Slugify(strings.Repeat("a", 300))
	assert.Len(t, []rune(slug), slugBaseMaxRunes)
}

func TestTripSlug(t *testing.T) {
	slug, err := TripSlug("Jade Mountain")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^jade-mountain-[0-9a-z]{8}$`), slug)

	other, err := TripSlug("Jade Mountain")
	require.NoError(t, err)
	assert.NotEqual(t, slug, other)

	empty, err := TripSlug("???")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(empty, "trip-"))
}

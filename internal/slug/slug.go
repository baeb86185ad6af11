package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goslug "github.com/goliatone/go-slug"
	"github.com/mozillazg/go-unidecode"
)

const (
	// Fallback replaces titles that reduce to nothing, e.g. pure punctuation.
	Fallback = "article"
	// MaxLength matches the slug column width.
	MaxLength = 100
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// ExistsFunc reports whether candidate is already taken by another record.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Make derives the base slug for text: ASCII transliteration, lower case,
// non-alphanumeric runs collapsed to one hyphen, no leading or trailing hyphen.
// It returns "" when nothing survives.
func Make(text string) string {
	ascii := strings.ToLower(unidecode.Unidecode(text))
	s := nonAlnum.ReplaceAllString(ascii, "-")

	// Separators are already hyphens here, so go-slug only collapses and
	// trims them.
	if normalized, err := goslug.Normalize(s); err == nil {
		s = normalized
	}

	s = strings.Trim(s, "-")
	return truncate(s, MaxLength)
}

// Unique returns the first of base, base-1, base-2, ... for which exists
// reports false. The predicate is responsible for excluding the record being
// edited.
func Unique(ctx context.Context, title string, exists ExistsFunc) (string, error) {
	base := Make(title)
	if base == "" {
		base = Fallback
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = withSuffix(base, counter)
	}
}

func withSuffix(base string, counter int) string {
	suffix := "-" + strconv.Itoa(counter)
	return truncate(base, MaxLength-len(suffix)) + suffix
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimRight(s[:n], "-")
}

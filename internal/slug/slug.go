// Package slug allocates collision-free, URL-safe identifiers scoped to a
// store (or store + entity kind).
package slug

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Fallback tokens used when a name normalizes to nothing.
const (
	FallbackStore    = "store"
	FallbackCategory = "category"
	FallbackBrand    = "brand"
	FallbackProduct  = "product"
)

// MaxSequentialAttempts is the total number of candidates tested by the
// base, base-2, base-3 ... scan, the bare base included.
const MaxSequentialAttempts = 1000

// ErrExhausted is returned when no free candidate was found within the
// attempt budget. Treated as a capacity problem, not a user error.
var ErrExhausted = errors.New("slug: candidate space exhausted")

// Make normalizes text to a lowercase URL-safe token: non-alphanumeric runs
// collapse to a single dash, leading/trailing dashes are trimmed. Empty
// results fall back to the entity kind's default token.
func Make(text, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return fallback
	}
	return s
}

// Sequential finds the first free candidate among base, base-2, base-3, ...
// using the supplied existence predicate. Only safe for low-volume entities
// (stores, categories, brands) where the check-then-insert race window is
// acceptable.
func Sequential(base string, exists func(candidate string) (bool, error)) (string, error) {
	for attempt := 0; attempt < MaxSequentialAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt+1)
		}
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

// Random suffix lengths for the concurrent-insert retry path.
const (
	ShortSuffixLen = 4
	LongSuffixLen  = 8
)

// WithRandomSuffix appends a short random hex token to base. Used on
// uniqueness-constraint violations during concurrent product creation,
// where a sequential scan would let two requests observe the same free
// candidate.
func WithRandomSuffix(base string, n int) string {
	tok := strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
	return base + "-" + tok
}

package slug

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		fallback string
		expected string
	}{
		{name: "simple", text: "Red Shirt", fallback: FallbackProduct, expected: "red-shirt"},
		{name: "collapses runs", text: "Summer  --  Sale!!", fallback: FallbackCategory, expected: "summer-sale"},
		{name: "trims separators", text: "--hello--", fallback: FallbackBrand, expected: "hello"},
		{name: "already normalized", text: "summer-sale", fallback: FallbackCategory, expected: "summer-sale"},
		{name: "digits kept", text: "Size 42", fallback: FallbackProduct, expected: "size-42"},
		{name: "empty falls back", text: "", fallback: FallbackStore, expected: "store"},
		{name: "only symbols falls back", text: "!!!", fallback: FallbackProduct, expected: "product"},
		{name: "non-latin falls back", text: "Магазин", fallback: FallbackStore, expected: "store"},
		{name: "mixed case", text: "ACME Store", fallback: FallbackStore, expected: "acme-store"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Make(tt.text, tt.fallback))
		})
	}
}

func TestSequential(t *testing.T) {
	t.Parallel()

	t.Run("base free", func(t *testing.T) {
		t.Parallel()

		got, err := Sequential("summer-sale", func(string) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Equal(t, "summer-sale", got)
	})

	t.Run("first collision yields -2", func(t *testing.T) {
		t.Parallel()

		taken := map[string]bool{"summer-sale": true}
		got, err := Sequential("summer-sale", func(c string) (bool, error) { return taken[c], nil })
		require.NoError(t, err)
		assert.Equal(t, "summer-sale-2", got)
	})

	t.Run("scans until free", func(t *testing.T) {
		t.Parallel()

		taken := map[string]bool{"b": true, "b-2": true, "b-3": true}
		got, err := Sequential("b", func(c string) (bool, error) { return taken[c], nil })
		require.NoError(t, err)
		assert.Equal(t, "b-4", got)
	})

	t.Run("predicate error propagates", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("db down")
		_, err := Sequential("x", func(string) (bool, error) { return false, boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("last numbered candidate is tested", func(t *testing.T) {
		t.Parallel()

		last := "x-1000"
		got, err := Sequential("x", func(c string) (bool, error) { return c != last, nil })
		require.NoError(t, err)
		assert.Equal(t, last, got)
	})

	t.Run("exhaustion", func(t *testing.T) {
		t.Parallel()

		var calls int
		_, err := Sequential("x", func(string) (bool, error) { calls++; return true, nil })
		assert.ErrorIs(t, err, ErrExhausted)
		assert.Equal(t, MaxSequentialAttempts, calls)
	})
}

func TestWithRandomSuffix(t *testing.T) {
	t.Parallel()

	got := WithRandomSuffix("red-shirt", ShortSuffixLen)
	require.True(t, strings.HasPrefix(got, "red-shirt-"))
	assert.Len(t, got, len("red-shirt-")+ShortSuffixLen)

	long := WithRandomSuffix("red-shirt", LongSuffixLen)
	assert.Len(t, long, len("red-shirt-")+LongSuffixLen)

	// Suffixes are random; two draws colliding would defeat the retry path.
	assert.NotEqual(t, WithRandomSuffix("a", LongSuffixLen), WithRandomSuffix("a", LongSuffixLen))
}

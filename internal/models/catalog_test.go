package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "canonical", in: "#FF00AA", want: "#FF00AA"},
		{name: "lowercase uppercased", in: "#ff00aa", want: "#FF00AA"},
		{name: "surrounding whitespace", in: "  #00ff00  ", want: "#00FF00"},
		{name: "short form rejected", in: "#F0A", wantErr: true},
		{name: "missing hash", in: "FF00AA", wantErr: true},
		{name: "non hex digits", in: "#GG0011", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeHex(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidHex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveSKU(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		hex  string
		size string
		want string
	}{
		{name: "full triple", slug: "summer-dress", hex: "#FF00AA", size: "M", want: "summer-dress-ff00aa-m"},
		{name: "no color", slug: "summer-dress", hex: "", size: "M", want: "summer-dress-nocolor-m"},
		{name: "no size", slug: "summer-dress", hex: "#FF00AA", size: "", want: "summer-dress-ff00aa-nosize"},
		{name: "size normalized", slug: "boots", hex: "#000000", size: "EU 42", want: "boots-000000-eu-42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DeriveSKU(tt.slug, tt.hex, tt.size))
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		first := DeriveSKU("jacket", "#112233", "XL")
		assert.Equal(t, first, DeriveSKU("jacket", "#112233", "XL"))
	})

	t.Run("truncated to max length", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", 100)
		sku := DeriveSKU(long, "#112233", "XL")
		assert.Len(t, sku, MaxSKULength)
	})
}

func TestPickMainIndex(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	img := func(main bool, sort int, offset time.Duration) ProductImage {
		return ProductImage{IsMain: main, Sort: sort, CreatedAt: base.Add(offset)}
	}

	tests := []struct {
		name   string
		images []ProductImage
		want   int
	}{
		{name: "empty", images: nil, want: -1},
		{name: "single image", images: []ProductImage{img(false, 5, 0)}, want: 0},
		{
			name:   "flagged main beats lower sort",
			images: []ProductImage{img(false, 0, 0), img(true, 9, 0)},
			want:   1,
		},
		{
			name:   "several mains lowest sort wins",
			images: []ProductImage{img(true, 3, 0), img(true, 1, 0), img(false, 0, 0)},
			want:   1,
		},
		{
			name:   "no main earliest sort wins",
			images: []ProductImage{img(false, 2, 0), img(false, 1, 0)},
			want:   1,
		},
		{
			name:   "sort tie broken by creation time",
			images: []ProductImage{img(false, 1, time.Hour), img(false, 1, 0)},
			want:   1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PickMainIndex(tt.images))
		})
	}
}

func TestDiscountActiveAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)
	ten := decimal.NewFromInt(10)

	tests := []struct {
		name     string
		category *Category
		want     bool
	}{
		{name: "nil category", category: nil, want: false},
		{
			name:     "inactive flag",
			category: &Category{DiscountActive: false, DiscountPercent: ten},
			want:     false,
		},
		{
			name:     "zero percent",
			category: &Category{DiscountActive: true, DiscountPercent: decimal.Zero},
			want:     false,
		},
		{
			name:     "unbounded window",
			category: &Category{DiscountActive: true, DiscountPercent: ten},
			want:     true,
		},
		{
			name:     "inside window",
			category: &Category{DiscountActive: true, DiscountPercent: ten, DiscountStart: &before, DiscountEnd: &after},
			want:     true,
		},
		{
			name:     "before start",
			category: &Category{DiscountActive: true, DiscountPercent: ten, DiscountStart: &after},
			want:     false,
		},
		{
			name:     "after end",
			category: &Category{DiscountActive: true, DiscountPercent: ten, DiscountEnd: &before},
			want:     false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.DiscountActiveAt(now))
		})
	}
}

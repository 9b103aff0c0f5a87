package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func variant(price string, active bool) models.ProductVariant {
	return models.ProductVariant{Price: d(price), IsActive: active}
}

func TestPriceRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		variants []models.ProductVariant
		min, max string
	}{
		{
			name:     "no variants collapses to zero",
			variants: nil,
			min:      "0", max: "0",
		},
		{
			name:     "only inactive variants collapses to zero",
			variants: []models.ProductVariant{variant("1000", false), variant("1200", false)},
			min:      "0", max: "0",
		},
		{
			name:     "single active variant",
			variants: []models.ProductVariant{variant("1000", true)},
			min:      "1000", max: "1000",
		},
		{
			name: "inactive variant excluded",
			variants: []models.ProductVariant{
				variant("1000", true),
				variant("1200", false),
			},
			min: "1000", max: "1000",
		},
		{
			name: "spread over active variants",
			variants: []models.ProductVariant{
				variant("1500", true),
				variant("999.99", true),
				variant("1250", true),
				variant("50", false),
			},
			min: "999.99", max: "1500",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			min, max := PriceRange(tt.variants)
			assert.True(t, min.Equal(d(tt.min)), "min: got %s want %s", min, tt.min)
			assert.True(t, max.Equal(d(tt.max)), "max: got %s want %s", max, tt.max)
		})
	}
}

func review(rating int, published bool) models.ProductReview {
	return models.ProductReview{Rating: rating, IsPublished: published}
}

func TestRatingSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reviews []models.ProductReview
		avg     string
		count   uint
	}{
		{name: "no reviews", reviews: nil, avg: "0", count: 0},
		{
			name:    "only unpublished",
			reviews: []models.ProductReview{review(5, false), review(1, false)},
			avg:     "0", count: 0,
		},
		{
			name:    "single published",
			reviews: []models.ProductReview{review(4, true)},
			avg:     "4", count: 1,
		},
		{
			name:    "mixed published and unpublished",
			reviews: []models.ProductReview{review(5, true), review(4, true), review(1, false)},
			avg:     "4.5", count: 2,
		},
		{
			name:    "average rounds to 2 places",
			reviews: []models.ProductReview{review(5, true), review(4, true), review(4, true)},
			avg:     "4.33", count: 3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			avg, count := RatingSummary(tt.reviews)
			assert.True(t, avg.Equal(d(tt.avg)), "avg: got %s want %s", avg, tt.avg)
			assert.Equal(t, tt.count, count)
		})
	}
}

// Recomputation is a pure function of current rows: running it twice with
// no intervening mutation must produce identical values.
func TestAggregatesIdempotent(t *testing.T) {
	t.Parallel()

	variants := []models.ProductVariant{variant("1000", true), variant("1200", true)}
	min1, max1 := PriceRange(variants)
	min2, max2 := PriceRange(variants)
	assert.True(t, min1.Equal(min2))
	assert.True(t, max1.Equal(max2))

	reviews := []models.ProductReview{review(3, true), review(5, true)}
	avg1, cnt1 := RatingSummary(reviews)
	avg2, cnt2 := RatingSummary(reviews)
	assert.True(t, avg1.Equal(avg2))
	assert.Equal(t, cnt1, cnt2)
}

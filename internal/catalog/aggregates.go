// Package catalog keeps a product's denormalized price range and rating in
// sync with its variants and reviews.
package catalog

import (
	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

// PriceRange computes min/max price over the active variants. With no
// active variant both collapse to zero, not to the prior cached value.
func PriceRange(variants []models.ProductVariant) (min, max decimal.Decimal) {
	first := true
	for _, v := range variants {
		if !v.IsActive {
			continue
		}
		if first {
			min, max = v.Price, v.Price
			first = false
			continue
		}
		if v.Price.LessThan(min) {
			min = v.Price
		}
		if v.Price.GreaterThan(max) {
			max = v.Price
		}
	}
	if first {
		return decimal.Zero, decimal.Zero
	}
	return min, max
}

// RatingSummary computes the average rating and count over published
// reviews, the average rounded to 2 decimal places. No published reviews
// yields zero for both.
func RatingSummary(reviews []models.ProductReview) (avg decimal.Decimal, count uint) {
	var sum int64
	for _, r := range reviews {
		if !r.IsPublished {
			continue
		}
		sum += int64(r.Rating)
		count++
	}
	if count == 0 {
		return decimal.Zero, 0
	}
	avg = decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(count))).Round(2)
	return avg, count
}

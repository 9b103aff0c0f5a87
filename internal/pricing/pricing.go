// Package pricing computes the price a shopper actually sees: the stored
// variant price with any currently-active category discount applied.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"catalog-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the variant's sale price at now. When the
// product's category has an active discount the stored price is reduced by
// discount_percent and rounded half-up to 2 decimal places; otherwise the
// stored price is returned unchanged.
func EffectivePrice(variant *models.ProductVariant, category *models.Category, now time.Time) decimal.Decimal {
	if category == nil || !category.DiscountActiveAt(now) {
		return variant.Price
	}
	factor := hundred.Sub(category.DiscountPercent).Div(hundred)
	return variant.Price.Mul(factor).Round(2)
}

// EffectiveOldPrice returns the struck-through reference price. While a
// category discount is active the stored price itself plays that role, so a
// promotion can show the pre-promotion price without mutating stored data.
// Otherwise the stored old price is returned verbatim (possibly nil).
func EffectiveOldPrice(variant *models.ProductVariant, category *models.Category, now time.Time) *decimal.Decimal {
	if category != nil && category.DiscountActiveAt(now) {
		p := variant.Price
		return &p
	}
	return variant.OldPrice
}

// View projects a variant into its storefront representation.
func View(variant models.ProductVariant, category *models.Category, now time.Time) models.VariantView {
	return models.VariantView{
		ProductVariant:    variant,
		EffectivePrice:    EffectivePrice(&variant, category, now),
		EffectiveOldPrice: EffectiveOldPrice(&variant, category, now),
	}
}

package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func discountCategory(percent string, active bool, start, end *time.Time) *models.Category {
	return &models.Category{
		DiscountPercent: d(percent),
		DiscountActive:  active,
		DiscountStart:   start,
		DiscountEnd:     end,
	}
}

func TestEffectivePrice(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		price    string
		category *models.Category
		expected string
	}{
		{name: "no category", price: "1000", category: nil, expected: "1000"},
		{name: "active discount", price: "1000", category: discountCategory("10", true, &before, &after), expected: "900"},
		{name: "inactive flag", price: "1000", category: discountCategory("10", false, &before, &after), expected: "1000"},
		{name: "zero percent", price: "1000", category: discountCategory("0", true, nil, nil), expected: "1000"},
		{name: "window not started", price: "1000", category: discountCategory("10", true, &after, nil), expected: "1000"},
		{name: "window ended", price: "1000", category: discountCategory("10", true, nil, &before), expected: "1000"},
		{name: "open bounds are unbounded", price: "1000", category: discountCategory("25", true, nil, nil), expected: "750"},
		{name: "rounds half up", price: "99.99", category: discountCategory("15", true, nil, nil), expected: "84.99"}, // 84.9915 -> 84.99
		{name: "half cent rounds up", price: "0.10", category: discountCategory("5", true, nil, nil), expected: "0.10"}, // 0.095 -> 0.10
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := &models.ProductVariant{Price: d(tt.price)}
			got := EffectivePrice(v, tt.category, now)
			assert.True(t, got.Equal(d(tt.expected)), "got %s want %s", got, tt.expected)
		})
	}
}

func TestEffectiveOldPrice(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	old := d("1200")

	t.Run("discount active shows stored price as old", func(t *testing.T) {
		t.Parallel()

		v := &models.ProductVariant{Price: d("1000"), OldPrice: &old}
		got := EffectiveOldPrice(v, discountCategory("10", true, nil, nil), now)
		require.NotNil(t, got)
		assert.True(t, got.Equal(d("1000")))
	})

	t.Run("no discount passes old price through", func(t *testing.T) {
		t.Parallel()

		v := &models.ProductVariant{Price: d("1000"), OldPrice: &old}
		got := EffectiveOldPrice(v, nil, now)
		require.NotNil(t, got)
		assert.True(t, got.Equal(old))
	})

	t.Run("no discount and no old price", func(t *testing.T) {
		t.Parallel()

		v := &models.ProductVariant{Price: d("1000")}
		assert.Nil(t, EffectiveOldPrice(v, nil, now))
	})
}

func TestView(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	v := models.ProductVariant{Price: d("1000"), Size: "M"}

	view := View(v, discountCategory("10", true, nil, nil), now)
	assert.True(t, view.EffectivePrice.Equal(d("900")))
	require.NotNil(t, view.EffectiveOldPrice)
	assert.True(t, view.EffectiveOldPrice.Equal(d("1000")))
	assert.Equal(t, "M", view.Size)
}

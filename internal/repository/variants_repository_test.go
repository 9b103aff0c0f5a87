package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func strPtr(s string) *string          { return &s }
func boolPtr(b bool) *bool             { return &b }
func decPtr(s string) *decimal.Decimal { d := decimal.RequireFromString(s); return &d }

func TestApplyVariantPatch_Color(t *testing.T) {
	t.Parallel()

	colorID := uuid.New()
	resolved := &models.ProductColor{ID: colorID}

	t.Run("empty colorId clears the color", func(t *testing.T) {
		t.Parallel()
		existing := uuid.New()
		variant := models.ProductVariant{ColorID: &existing, Price: decimal.NewFromInt(10)}
		_, _, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{ColorID: strPtr("")}, func(string) (*models.ProductColor, error) {
			t.Fatal("resolver must not be called for an empty colorId")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, variant.ColorID)
	})

	t.Run("non-empty colorId resolves and is assigned", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10)}
		_, _, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{ColorID: strPtr(colorID.String())}, func(id string) (*models.ProductColor, error) {
			assert.Equal(t, colorID.String(), id)
			return resolved, nil
		})
		require.NoError(t, err)
		require.NotNil(t, variant.ColorID)
		assert.Equal(t, colorID, *variant.ColorID)
	})

	t.Run("unresolvable colorId is rejected", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10)}
		_, _, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{ColorID: strPtr(colorID.String())}, func(string) (*models.ProductColor, error) {
			return nil, nil
		})
		assert.ErrorIs(t, err, ErrColorNotFound)
	})
}

func TestApplyVariantPatch_Fields(t *testing.T) {
	t.Parallel()

	noColor := func(string) (*models.ProductColor, error) { return nil, ErrColorNotFound }

	t.Run("price change is reported", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10)}
		priceChanged, activeChanged, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{Price: decPtr("12.50")}, noColor)
		require.NoError(t, err)
		assert.True(t, priceChanged)
		assert.False(t, activeChanged)
		assert.True(t, variant.Price.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("equal price is not a change", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10)}
		priceChanged, _, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{Price: decPtr("10")}, noColor)
		require.NoError(t, err)
		assert.False(t, priceChanged)
	})

	t.Run("active flag change is reported", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10), IsActive: true}
		_, activeChanged, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{IsActive: boolPtr(false)}, noColor)
		require.NoError(t, err)
		assert.True(t, activeChanged)
		assert.False(t, variant.IsActive)
	})

	t.Run("old price below price is rejected", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10)}
		_, _, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{OldPrice: decPtr("5")}, noColor)
		assert.ErrorIs(t, err, ErrOldPriceBelowPrice)
	})

	t.Run("blank sku keeps the existing one", func(t *testing.T) {
		t.Parallel()
		variant := models.ProductVariant{Price: decimal.NewFromInt(10), SKU: "TS-BLK-M"}
		_, _, err := applyVariantPatch(&variant, &models.UpdateVariantRequest{SKU: strPtr("")}, noColor)
		require.NoError(t, err)
		assert.Equal(t, "TS-BLK-M", variant.SKU)
	})
}

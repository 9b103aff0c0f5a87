package handlers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func TestApplyReviewerIdentity(t *testing.T) {
	t.Parallel()

	spoofed := "11111111-1111-1111-1111-111111111111"
	authed := "22222222-2222-2222-2222-222222222222"

	t.Run("anonymous caller cannot supply a userId", func(t *testing.T) {
		t.Parallel()
		req := models.CreateReviewRequest{UserID: &spoofed}
		applyReviewerIdentity(&req, "")
		assert.Nil(t, req.UserID)
	})

	t.Run("authenticated identity replaces the payload one", func(t *testing.T) {
		t.Parallel()
		req := models.CreateReviewRequest{UserID: &spoofed}
		applyReviewerIdentity(&req, authed)
		require.NotNil(t, req.UserID)
		assert.Equal(t, authed, *req.UserID)
	})

	t.Run("authenticated identity is applied to a bare payload", func(t *testing.T) {
		t.Parallel()
		req := models.CreateReviewRequest{}
		applyReviewerIdentity(&req, authed)
		require.NotNil(t, req.UserID)
		assert.Equal(t, authed, *req.UserID)
	})
}

func TestBuildProductView(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	category := &models.Category{
		Name:            "Dresses",
		DiscountActive:  true,
		DiscountPercent: decimal.NewFromInt(10),
	}
	product := &models.Product{
		Name:     "Summer Dress",
		Slug:     "summer-dress",
		IsActive: true,
		Category: category,
		Variants: []models.ProductVariant{
			{Size: "S", Price: decimal.NewFromInt(1000), IsActive: true},
			{Size: "M", Price: decimal.NewFromInt(1200), IsActive: false},
		},
		Images: []models.ProductImage{
			{URL: "https://cdn.example.com/1.jpg", Sort: 2},
			{URL: "https://cdn.example.com/2.jpg", Sort: 1, IsMain: true},
		},
	}

	view := buildProductView(product, now)

	require.Len(t, view.VariantViews, 1, "inactive variants must not be projected")
	assert.Equal(t, "S", view.VariantViews[0].Size)
	assert.True(t, view.VariantViews[0].EffectivePrice.Equal(decimal.NewFromInt(900)))
	require.NotNil(t, view.VariantViews[0].EffectiveOldPrice)
	assert.True(t, view.VariantViews[0].EffectiveOldPrice.Equal(decimal.NewFromInt(1000)))

	require.NotNil(t, view.MainImage)
	assert.Equal(t, "https://cdn.example.com/2.jpg", view.MainImage.URL)
}

func TestBuildProductViewNoDiscount(t *testing.T) {
	t.Parallel()

	old := decimal.NewFromInt(1500)
	product := &models.Product{
		Slug:     "plain-tee",
		IsActive: true,
		Variants: []models.ProductVariant{
			{Size: "L", Price: decimal.NewFromInt(1200), OldPrice: &old, IsActive: true},
		},
	}

	view := buildProductView(product, time.Now())

	require.Len(t, view.VariantViews, 1)
	assert.True(t, view.VariantViews[0].EffectivePrice.Equal(decimal.NewFromInt(1200)))
	require.NotNil(t, view.VariantViews[0].EffectiveOldPrice)
	assert.True(t, view.VariantViews[0].EffectiveOldPrice.Equal(old))
	assert.Nil(t, view.MainImage)
}

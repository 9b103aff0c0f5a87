package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/middleware"
	"catalog-service/internal/models"
	"catalog-service/internal/pricing"
	"catalog-service/internal/repository"
)

// StorefrontHandler serves the public read API of a resolved store. Every
// route here sits behind the tenant middleware, so the store comes from the
// request host.
type StorefrontHandler struct {
	stores     *repository.StoresRepository
	categories *repository.CategoriesRepository
	products   *ProductsHandler
	repo       *repository.ProductsRepository
	reviews    *repository.ReviewsRepository
	logger     *logrus.Entry
}

func NewStorefrontHandler(
	stores *repository.StoresRepository,
	categories *repository.CategoriesRepository,
	products *repository.ProductsRepository,
	reviews *repository.ReviewsRepository,
	productsHandler *ProductsHandler,
	logger *logrus.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		stores:     stores,
		categories: categories,
		repo:       products,
		reviews:    reviews,
		products:   productsHandler,
		logger:     logger.WithField("component", "handlers.storefront"),
	}
}

func (h *StorefrontHandler) currentStore(c *gin.Context) (*models.Store, bool) {
	store, ok := middleware.CurrentStore(c)
	if !ok {
		respondError(c, http.StatusBadRequest, models.CodeTenantRequired, "Store context required")
		return nil, false
	}
	return store, true
}

// GetStore returns the storefront profile with social links
// @Summary Storefront profile
// @Tags storefront
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /storefront/store [get]
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}

	full, err := h.stores.GetStore(store.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, full)
}

// ListCategories lists the store's active categories
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(store.ID, true)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

// ListBrands lists the store's active brands
func (h *StorefrontHandler) ListBrands(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}

	brands, err := h.categories.ListBrands(store.ID, true)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, brands)
}

// ListProducts lists the store's active products with filters and paging
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}
	q, qok := h.products.bindListQuery(c)
	if !qok {
		return
	}

	products, total, err := h.repo.ListProducts(c.Request.Context(), store.ID, q, true)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: paginationInfo(q.Page, q.Limit, total),
	})
}

// GetProduct returns a product by slug with effective prices applied at
// read time and the view counter bumped.
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}

	product, pok := h.activeProductBySlug(c, store)
	if !pok {
		return
	}

	if err := h.repo.IncrementViews(store.ID, product.ID); err != nil {
		h.logger.WithError(err).WithField("productId", product.ID).Warn("Failed to increment views")
	}

	respondData(c, http.StatusOK, buildProductView(product, time.Now()))
}

// activeProductBySlug resolves a slug to an active product of the current
// store; inactive products are indistinguishable from missing ones.
func (h *StorefrontHandler) activeProductBySlug(c *gin.Context, store *models.Store) (*models.Product, bool) {
	product, err := h.repo.GetProductBySlug(c.Request.Context(), store.ID, c.Param("slug"))
	if err != nil {
		respondRepoError(c, err)
		return nil, false
	}
	if !product.IsActive {
		respondError(c, http.StatusNotFound, models.CodeNotFound, "Resource not found")
		return nil, false
	}
	return product, true
}

// ListReviews lists a product's published reviews
func (h *StorefrontHandler) ListReviews(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}
	product, pok := h.activeProductBySlug(c, store)
	if !pok {
		return
	}

	reviews, err := h.reviews.ListPublished(c.Request.Context(), store.ID, product.ID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, reviews)
}

// applyReviewerIdentity stamps the authenticated identity onto a review
// request. Whatever identity the payload carried is discarded first, so an
// anonymous caller cannot pick a userId and an authenticated one cannot
// impersonate another.
func applyReviewerIdentity(req *models.CreateReviewRequest, userID string) {
	req.UserID = nil
	if userID != "" {
		req.UserID = &userID
	}
}

// PostReview posts a review for a product. The reviewer identity, when
// present, comes from the auth middleware, not the payload.
func (h *StorefrontHandler) PostReview(c *gin.Context) {
	store, ok := h.currentStore(c)
	if !ok {
		return
	}
	product, pok := h.activeProductBySlug(c, store)
	if !pok {
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}
	applyReviewerIdentity(&req, middleware.CurrentUserID(c))

	review, err := h.reviews.CreateReview(store.ID, product.ID, &req)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, models.CodeDuplicate, "You have already reviewed this product")
			return
		}
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, review)
}

// buildProductView projects a product for the storefront: variants carry
// their effective prices under the category discount, and the main image is
// surfaced.
func buildProductView(product *models.Product, now time.Time) models.ProductView {
	view := models.ProductView{Product: *product}

	view.VariantViews = make([]models.VariantView, 0, len(product.Variants))
	for _, variant := range product.Variants {
		if !variant.IsActive {
			continue
		}
		view.VariantViews = append(view.VariantViews, pricing.View(variant, product.Category, now))
	}

	if idx := models.PickMainIndex(product.Images); idx >= 0 {
		view.MainImage = &product.Images[idx]
	}
	return view
}

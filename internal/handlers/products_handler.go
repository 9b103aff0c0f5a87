package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ProductsHandler struct {
	repo        *repository.ProductsRepository
	defaultPage int
	maxPage     int
}

func NewProductsHandler(repo *repository.ProductsRepository, defaultPageSize, maxPageSize int) *ProductsHandler {
	return &ProductsHandler{repo: repo, defaultPage: defaultPageSize, maxPage: maxPageSize}
}

func (h *ProductsHandler) bindListQuery(c *gin.Context) (*models.ListProductsQuery, bool) {
	var q models.ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return nil, false
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = h.defaultPage
	}
	if q.Limit > h.maxPage {
		q.Limit = h.maxPage
	}
	return &q, true
}

// CreateProduct creates a product with inline colors, variants and images
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param product body models.CreateProductRequest true "Product"
// @Success 201 {object} models.SuccessResponse
// @Router /stores/{storeId}/products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	product, err := h.repo.CreateProduct(storeID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, product)
}

// GetProduct returns a product with all associations
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	product, err := h.repo.GetProduct(c.Request.Context(), storeID, productID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// ListProducts returns a page of products, inactive ones included
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	q, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	products, total, err := h.repo.ListProducts(c.Request.Context(), storeID, q, false)
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

// UpdateProduct updates product fields; the slug stays fixed
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	product, err := h.repo.UpdateProduct(storeID, productID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, product)
}

// DeleteProduct removes a product and its children
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	if err := h.repo.DeleteProduct(storeID, productID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Product deleted")
}

// AddColor attaches a color to a product
func (h *ProductsHandler) AddColor(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	var req models.CreateColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	color, err := h.repo.AddColor(storeID, productID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, color)
}

// DeleteColor removes a color; variants keep existing colorless
func (h *ProductsHandler) DeleteColor(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}
	colorID, ok := pathUUID(c, "colorId")
	if !ok {
		return
	}

	if err := h.repo.DeleteColor(storeID, productID, colorID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Color deleted")
}

// CreateVariant adds a sellable variant to a product
func (h *ProductsHandler) CreateVariant(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	var req models.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	variant, err := h.repo.CreateVariant(storeID, productID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, variant)
}

// UpdateVariant edits a variant
func (h *ProductsHandler) UpdateVariant(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}
	variantID, ok := pathUUID(c, "variantId")
	if !ok {
		return
	}

	var req models.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	variant, err := h.repo.UpdateVariant(storeID, productID, variantID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, variant)
}

// DeleteVariant removes a variant
func (h *ProductsHandler) DeleteVariant(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}
	variantID, ok := pathUUID(c, "variantId")
	if !ok {
		return
	}

	if err := h.repo.DeleteVariant(storeID, productID, variantID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Variant deleted")
}

// AddImage attaches an image to a product
func (h *ProductsHandler) AddImage(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}

	var req models.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	image, err := h.repo.AddImage(storeID, productID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, image)
}

// UpdateImage edits image flags and ordering
func (h *ProductsHandler) UpdateImage(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "imageId")
	if !ok {
		return
	}

	var req models.UpdateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	image, err := h.repo.UpdateImage(storeID, productID, imageID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, image)
}

// DeleteImage removes an image
func (h *ProductsHandler) DeleteImage(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "imageId")
	if !ok {
		return
	}

	if err := h.repo.DeleteImage(storeID, productID, imageID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Image deleted")
}

// SetMainImage makes an image the product's main image
func (h *ProductsHandler) SetMainImage(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "productId")
	if !ok {
		return
	}
	imageID, ok := pathUUID(c, "imageId")
	if !ok {
		return
	}

	if err := h.repo.SetMainImage(storeID, productID, imageID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Main image updated")
}

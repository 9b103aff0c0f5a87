package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type CategoriesHandler struct {
	repo *repository.CategoriesRepository
}

func NewCategoriesHandler(repo *repository.CategoriesRepository) *CategoriesHandler {
	return &CategoriesHandler{repo: repo}
}

// CreateCategory creates a category, deriving a unique slug from the name
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param category body models.CreateCategoryRequest true "Category"
// @Success 201 {object} models.SuccessResponse
// @Router /stores/{storeId}/categories [post]
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	category, err := h.repo.CreateCategory(storeID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, category)
}

// UpdateCategory edits a category including its discount window
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	categoryID, ok := pathUUID(c, "categoryId")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	category, err := h.repo.UpdateCategory(storeID, categoryID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, category)
}

// DeleteCategory removes a category; products keep existing uncategorized
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	categoryID, ok := pathUUID(c, "categoryId")
	if !ok {
		return
	}

	if err := h.repo.DeleteCategory(storeID, categoryID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Category deleted")
}

// ListCategories lists a store's categories
func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	categories, err := h.repo.ListCategories(storeID, false)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, categories)
}

// CreateBrand creates a brand
func (h *CategoriesHandler) CreateBrand(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	var req models.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	brand, err := h.repo.CreateBrand(storeID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, brand)
}

// DeleteBrand removes a brand; products keep existing unbranded
func (h *CategoriesHandler) DeleteBrand(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	brandID, ok := pathUUID(c, "brandId")
	if !ok {
		return
	}

	if err := h.repo.DeleteBrand(storeID, brandID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Brand deleted")
}

// ListBrands lists a store's brands
func (h *CategoriesHandler) ListBrands(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	brands, err := h.repo.ListBrands(storeID, false)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, brands)
}

// ListGenders lists the global gender lookup
func (h *CategoriesHandler) ListGenders(c *gin.Context) {
	genders, err := h.repo.ListGenders()
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, genders)
}

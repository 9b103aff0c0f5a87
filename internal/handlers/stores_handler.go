package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type StoresHandler struct {
	repo *repository.StoresRepository
}

func NewStoresHandler(repo *repository.StoresRepository) *StoresHandler {
	return &StoresHandler{repo: repo}
}

// CreateStore provisions a new store with a unique subdomain
// @Summary Create store
// @Tags stores
// @Accept json
// @Produce json
// @Param store body models.CreateStoreRequest true "Store"
// @Success 201 {object} models.SuccessResponse
// @Router /stores [post]
func (h *StoresHandler) CreateStore(c *gin.Context) {
	var req models.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	store, err := h.repo.CreateStore(&req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, store)
}

// GetStore returns a store with its social links
// @Summary Get store
// @Tags stores
// @Produce json
// @Param storeId path string true "Store ID"
// @Success 200 {object} models.SuccessResponse
// @Router /stores/{storeId} [get]
func (h *StoresHandler) GetStore(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	store, err := h.repo.GetStore(storeID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, store)
}

// UpdateStore updates store profile fields; the subdomain never changes
// @Summary Update store
// @Tags stores
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param store body models.UpdateStoreRequest true "Fields"
// @Success 200 {object} models.SuccessResponse
// @Router /stores/{storeId} [put]
func (h *StoresHandler) UpdateStore(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	var req models.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	store, err := h.repo.UpdateStore(storeID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, store)
}

// ListSocials lists a store's social links
func (h *StoresHandler) ListSocials(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	socials, err := h.repo.ListSocials(storeID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, socials)
}

// CreateSocial adds a social link to a store
func (h *StoresHandler) CreateSocial(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}

	var req models.SaveSocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	social, err := h.repo.CreateSocial(storeID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusCreated, social)
}

// UpdateSocial edits a social link
func (h *StoresHandler) UpdateSocial(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	socialID, ok := pathUUID(c, "socialId")
	if !ok {
		return
	}

	var req models.SaveSocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	social, err := h.repo.UpdateSocial(storeID, socialID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, social)
}

// DeleteSocial removes a social link
func (h *StoresHandler) DeleteSocial(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	socialID, ok := pathUUID(c, "socialId")
	if !ok {
		return
	}

	if err := h.repo.DeleteSocial(storeID, socialID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Social link deleted")
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ReviewsHandler struct {
	repo *repository.ReviewsRepository
}

func NewReviewsHandler(repo *repository.ReviewsRepository) *ReviewsHandler {
	return &ReviewsHandler{repo: repo}
}

// Admin moderation surface. The storefront read/post endpoints live on
// StorefrontHandler, addressed by product slug.

// ListAllReviews lists every review of a product, unpublished included
func (h *ReviewsHandler) ListAllReviews(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, pok := pathUUID(c, "productId")
	if !pok {
		return
	}

	reviews, err := h.repo.ListAll(c.Request.Context(), storeID, productID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, reviews)
}

// UpdateReview edits a review's rating or text
func (h *ReviewsHandler) UpdateReview(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, pok := pathUUID(c, "productId")
	if !pok {
		return
	}
	reviewID, rok := pathUUID(c, "reviewId")
	if !rok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeValidationError, err.Error())
		return
	}

	review, err := h.repo.UpdateReview(storeID, productID, reviewID, &req)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

// PublishReview moderates a review into the published set
func (h *ReviewsHandler) PublishReview(c *gin.Context) {
	h.setPublished(c, true)
}

// UnpublishReview hides a review; the rating drops it immediately
func (h *ReviewsHandler) UnpublishReview(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *ReviewsHandler) setPublished(c *gin.Context, published bool) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, pok := pathUUID(c, "productId")
	if !pok {
		return
	}
	reviewID, rok := pathUUID(c, "reviewId")
	if !rok {
		return
	}

	review, err := h.repo.SetPublished(storeID, productID, reviewID, published)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	respondData(c, http.StatusOK, review)
}

// DeleteReview removes a review
func (h *ReviewsHandler) DeleteReview(c *gin.Context) {
	storeID, ok := pathUUID(c, "storeId")
	if !ok {
		return
	}
	productID, pok := pathUUID(c, "productId")
	if !pok {
		return
	}
	reviewID, rok := pathUUID(c, "reviewId")
	if !rok {
		return
	}

	if err := h.repo.DeleteReview(storeID, productID, reviewID); err != nil {
		respondRepoError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Review deleted")
}

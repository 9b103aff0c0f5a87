package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/slug"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.SuccessResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, models.SuccessResponse{Success: true, Message: &message})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

func respondFieldError(c *gin.Context, status int, code, message, field string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

// respondRepoError maps repository errors to the response envelope. Unknown
// errors surface as 500 without leaking internals.
func respondRepoError(c *gin.Context, err error) {
	var parseErr *time.ParseError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, models.CodeNotFound, "Resource not found")
	case errors.Is(err, slug.ErrExhausted):
		respondError(c, http.StatusConflict, models.CodeSlugAllocationFailed, "Could not allocate a unique identifier, please retry")
	case errors.Is(err, models.ErrInvalidHex):
		respondFieldError(c, http.StatusBadRequest, models.CodeValidationError, err.Error(), "hex")
	case errors.Is(err, repository.ErrInvalidDiscount):
		respondFieldError(c, http.StatusBadRequest, models.CodeValidationError, err.Error(), "discountPercent")
	case errors.Is(err, repository.ErrOldPriceBelowPrice):
		respondFieldError(c, http.StatusBadRequest, models.CodeValidationError, err.Error(), "oldPrice")
	case errors.Is(err, repository.ErrColorNotFound):
		respondFieldError(c, http.StatusBadRequest, models.CodeValidationError, err.Error(), "colorId")
	case repository.IsUniqueViolation(err):
		respondError(c, http.StatusConflict, models.CodeDuplicate, "Resource already exists")
	case errors.As(err, &parseErr):
		respondError(c, http.StatusBadRequest, models.CodeValidationError, "Timestamps must be RFC 3339")
	default:
		respondError(c, http.StatusInternalServerError, models.CodeInternalError, "Internal server error")
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondFieldError(c, http.StatusBadRequest, models.CodeValidationError, "Invalid identifier", name)
		return uuid.Nil, false
	}
	return id, true
}

func paginationInfo(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

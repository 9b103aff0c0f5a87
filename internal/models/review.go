package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductReview is a shopper review. Only published reviews count towards
// the product's denormalized rating. A non-anonymous user may review a
// product once; the partial unique index is created in config.InitDB.
type ProductReview struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index:idx_reviews_product_published"`

	// Nulled when the user account is deleted.
	UserID *uuid.UUID `json:"userId,omitempty" gorm:"type:uuid;index"`

	Rating      int    `json:"rating" gorm:"not null;check:chk_review_rating,rating >= 1 AND rating <= 5"`
	Text        string `json:"text,omitempty" gorm:"type:text"`
	IsPublished bool   `json:"isPublished" gorm:"not null;default:true;index:idx_reviews_product_published"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProductReview) TableName() string {
	return "product_reviews"
}

// CreateReviewRequest posts a review for a product.
type CreateReviewRequest struct {
	UserID *string `json:"userId,omitempty"`
	Rating int     `json:"rating" binding:"required,min=1,max=5"`
	Text   string  `json:"text,omitempty"`
}

// UpdateReviewRequest edits a review's rating or text.
type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Text   *string `json:"text,omitempty"`
}

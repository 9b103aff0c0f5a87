package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
)

type ReviewsRepository struct {
	db       *gorm.DB
	bus      *events.Bus
	products *ProductsRepository
	logger   *logrus.Entry
}

func NewReviewsRepository(db *gorm.DB, bus *events.Bus, products *ProductsRepository, logger *logrus.Logger) *ReviewsRepository {
	return &ReviewsRepository{
		db:       db,
		bus:      bus,
		products: products,
		logger:   logger.WithField("component", "repository.reviews"),
	}
}

// CreateReview posts a review and recomputes the product rating in the same
// transaction. A signed-in user may review a product once; anonymous
// reviews are unlimited.
func (r *ReviewsRepository) CreateReview(storeID, productID uuid.UUID, req *models.CreateReviewRequest) (*models.ProductReview, error) {
	review := &models.ProductReview{
		ProductID:   productID,
		Rating:      req.Rating,
		Text:        req.Text,
		IsPublished: true,
	}
	if req.UserID != nil && *req.UserID != "" {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, gorm.ErrRecordNotFound
		}
		review.UserID = &userID
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return r.bus.Publish(tx, events.ReviewChanged{ProductID: productID, ReviewID: review.ID})
	})
	if err != nil {
		return nil, err
	}
	r.products.invalidateProduct(storeID, productID)
	return review, nil
}

// UpdateReview edits rating or text; a rating change recomputes the product
// rating.
func (r *ReviewsRepository) UpdateReview(storeID, productID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.ProductReview, error) {
	var review models.ProductReview
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		if err := tx.First(&review, "product_id = ? AND id = ?", productID, reviewID).Error; err != nil {
			return err
		}

		ratingChanged := false
		if req.Rating != nil && *req.Rating != review.Rating {
			review.Rating = *req.Rating
			ratingChanged = true
		}
		if req.Text != nil {
			review.Text = *req.Text
		}
		if err := tx.Save(&review).Error; err != nil {
			return err
		}

		if ratingChanged {
			return r.bus.Publish(tx, events.ReviewChanged{ProductID: productID, ReviewID: review.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.products.invalidateProduct(storeID, productID)
	return &review, nil
}

// SetPublished moderates a review in or out of the published set,
// recomputing the rating either way.
func (r *ReviewsRepository) SetPublished(storeID, productID, reviewID uuid.UUID, published bool) (*models.ProductReview, error) {
	var review models.ProductReview
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		if err := tx.First(&review, "product_id = ? AND id = ?", productID, reviewID).Error; err != nil {
			return err
		}
		if review.IsPublished == published {
			return nil
		}
		review.IsPublished = published
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return r.bus.Publish(tx, events.ReviewChanged{ProductID: productID, ReviewID: review.ID})
	})
	if err != nil {
		return nil, err
	}
	r.products.invalidateProduct(storeID, productID)
	return &review, nil
}

// DeleteReview removes a review and recomputes the rating.
func (r *ReviewsRepository) DeleteReview(storeID, productID, reviewID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		res := tx.Where("product_id = ? AND id = ?", productID, reviewID).Delete(&models.ProductReview{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.bus.Publish(tx, events.ReviewChanged{ProductID: productID, ReviewID: reviewID, Deleted: true})
	})
	if err != nil {
		return err
	}
	r.products.invalidateProduct(storeID, productID)
	return nil
}

// ListPublished returns a product's published reviews, newest first.
func (r *ReviewsRepository) ListPublished(ctx context.Context, storeID, productID uuid.UUID) ([]models.ProductReview, error) {
	if _, err := scopedProduct(r.db.WithContext(ctx), storeID, productID); err != nil {
		return nil, err
	}
	var reviews []models.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_published = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// ListAll returns every review of a product for moderation, newest first.
func (r *ReviewsRepository) ListAll(ctx context.Context, storeID, productID uuid.UUID) ([]models.ProductReview, error) {
	if _, err := scopedProduct(r.db.WithContext(ctx), storeID, productID); err != nil {
		return nil, err
	}
	var reviews []models.ProductReview
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

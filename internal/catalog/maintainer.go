package catalog

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
)

// Maintainer recomputes a product's cached aggregates. Both recomputations
// are idempotent and safe to re-run: they are pure aggregates over current
// rows, so redundant invocations cost only the extra query. Writes go
// through UpdateColumns to bypass model hooks and avoid re-triggering.
type Maintainer struct {
	logger *logrus.Entry
}

func NewMaintainer(logger *logrus.Logger) *Maintainer {
	return &Maintainer{logger: logger.WithField("component", "catalog.maintainer")}
}

// Register wires the maintainer onto the bus: variant mutations refresh the
// price range, review mutations refresh the rating.
func (m *Maintainer) Register(bus *events.Bus) {
	bus.Subscribe(events.KindVariantChanged, func(tx *gorm.DB, ev events.Event) error {
		return m.UpdatePrices(tx, ev.Product())
	})
	bus.Subscribe(events.KindReviewChanged, func(tx *gorm.DB, ev events.Event) error {
		return m.UpdateRating(tx, ev.Product())
	})
}

// UpdatePrices recomputes min_price/max_price from the product's active
// variants and writes them directly to storage.
func (m *Maintainer) UpdatePrices(tx *gorm.DB, productID uuid.UUID) error {
	var variants []models.ProductVariant
	if err := tx.Where("product_id = ?", productID).Find(&variants).Error; err != nil {
		return err
	}

	min, max := PriceRange(variants)
	err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"min_price": min,
			"max_price": max,
		}).Error
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"productId": productID,
		"minPrice":  min,
		"maxPrice":  max,
	}).Debug("price range recomputed")
	return nil
}

// UpdateRating recomputes rating_avg/rating_count from the product's
// published reviews and writes them directly to storage.
func (m *Maintainer) UpdateRating(tx *gorm.DB, productID uuid.UUID) error {
	var reviews []models.ProductReview
	if err := tx.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return err
	}

	avg, count := RatingSummary(reviews)
	err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"rating_avg":   avg,
			"rating_count": count,
		}).Error
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"productId":   productID,
		"ratingAvg":   avg,
		"ratingCount": count,
	}).Debug("rating recomputed")
	return nil
}

// Refresh reloads the cached aggregate columns into p after a recomputation
// so the caller hands back current values without a second full fetch.
func Refresh(tx *gorm.DB, p *models.Product) error {
	var row models.Product
	err := tx.Select("min_price", "max_price", "rating_avg", "rating_count").
		Where("id = ?", p.ID).
		Take(&row).Error
	if err != nil {
		return err
	}
	p.MinPrice, p.MaxPrice = row.MinPrice, row.MaxPrice
	p.RatingAvg, p.RatingCount = row.RatingAvg, row.RatingCount
	return nil
}

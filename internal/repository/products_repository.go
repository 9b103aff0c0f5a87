package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/catalog"
	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/slug"
)

// ProductCacheTTL bounds staleness of the single-product redis cache.
const ProductCacheTTL = 5 * time.Minute

// slugInsertAttempts bounds the retry-on-conflict loop for product slugs.
// Products are created concurrently, so a check-then-insert scan is not
// safe here; the insert itself is retried instead.
const slugInsertAttempts = 8

// ErrOldPriceBelowPrice rejects a variant whose old price undercuts the
// current price.
var ErrOldPriceBelowPrice = errors.New("old price must be greater than or equal to price")

// ErrColorNotFound rejects a variant or image referencing a color that does
// not belong to the product.
var ErrColorNotFound = errors.New("color does not belong to this product")

type ProductsRepository struct {
	db     *gorm.DB
	redis  *redis.Client
	bus    *events.Bus
	logger *logrus.Entry
}

func NewProductsRepository(db *gorm.DB, redisClient *redis.Client, bus *events.Bus, logger *logrus.Logger) *ProductsRepository {
	return &ProductsRepository{
		db:     db,
		redis:  redisClient,
		bus:    bus,
		logger: logger.WithField("component", "repository.products"),
	}
}

// Cache helpers. Caching is best-effort: a dead redis never fails a request.

func productCacheKey(storeID, productID uuid.UUID) string {
	return fmt.Sprintf("catalog:product:%s:%s", storeID, productID)
}

func (r *ProductsRepository) cachedProduct(ctx context.Context, storeID, productID uuid.UUID) *models.Product {
	if r.redis == nil {
		return nil
	}
	val, err := r.redis.Get(ctx, productCacheKey(storeID, productID)).Result()
	if err != nil {
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil
	}
	return &product
}

func (r *ProductsRepository) cacheProduct(ctx context.Context, product *models.Product) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	r.redis.Set(ctx, productCacheKey(product.StoreID, product.ID), data, ProductCacheTTL)
}

func (r *ProductsRepository) invalidateProduct(storeID, productID uuid.UUID) {
	if r.redis == nil {
		return
	}
	r.redis.Del(context.Background(), productCacheKey(storeID, productID))
}

// CreateProduct creates a product together with its inline colors, variants
// and images in one all-or-nothing transaction. Category and brand may be
// referenced by id or resolved (created when absent) by name within the
// store.
func (r *ProductsRepository) CreateProduct(storeID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		StoreID:  storeID,
		Name:     req.Name,
		IsActive: true,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Country != nil {
		product.Country = *req.Country
	}
	if req.Material != nil {
		product.Material = *req.Material
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	base := slug.Make(req.Name, slug.FallbackProduct)
	if req.Slug != nil && *req.Slug != "" {
		base = slug.Make(*req.Slug, slug.FallbackProduct)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.resolveReferences(tx, storeID, product, req.CategoryID, req.CategoryName, req.BrandID, req.BrandName, req.GenderID); err != nil {
			return err
		}

		if err := r.insertWithSlugRetry(tx, product, base); err != nil {
			return err
		}

		colorsByHex := make(map[string]*models.ProductColor, len(req.Colors))
		for i := range req.Colors {
			color, err := createColorTx(tx, product.ID, &req.Colors[i])
			if err != nil {
				return err
			}
			colorsByHex[color.Hex] = color
		}

		for i := range req.Variants {
			if _, err := r.createVariantTx(tx, product, &req.Variants[i], colorsByHex); err != nil {
				return err
			}
		}

		for i := range req.Images {
			if _, err := createImageTx(tx, product.ID, &req.Images[i]); err != nil {
				return err
			}
		}
		if len(req.Images) > 0 {
			if err := normalizeMainImage(tx, product.ID); err != nil {
				return err
			}
		}

		return catalog.Refresh(tx, product)
	})
	if err != nil {
		return nil, err
	}

	return r.GetProduct(context.Background(), storeID, product.ID)
}

// insertWithSlugRetry persists the product under the base slug, retrying
// with short random suffixes on uniqueness violations; the final attempt
// uses a long suffix whose collision odds are negligible. Each attempt runs
// under a savepoint so a failed insert does not poison the enclosing
// transaction.
func (r *ProductsRepository) insertWithSlugRetry(tx *gorm.DB, product *models.Product, base string) error {
	product.Slug = base
	for attempt := 0; attempt < slugInsertAttempts; attempt++ {
		product.ID = uuid.New()

		tx.SavePoint("product_insert")
		err := tx.Create(product).Error
		if err == nil {
			if attempt > 0 {
				r.logger.WithFields(logrus.Fields{
					"slug":     product.Slug,
					"attempts": attempt + 1,
				}).Info("Product slug allocated after collision retries")
			}
			return nil
		}
		if !IsUniqueViolation(err) {
			return err
		}
		tx.RollbackTo("product_insert")

		if attempt == slugInsertAttempts-2 {
			product.Slug = slug.WithRandomSuffix(base, slug.LongSuffixLen)
		} else {
			product.Slug = slug.WithRandomSuffix(base, slug.ShortSuffixLen)
		}
	}
	return fmt.Errorf("allocate slug for %q: %w", base, slug.ErrExhausted)
}

func (r *ProductsRepository) resolveReferences(tx *gorm.DB, storeID uuid.UUID, product *models.Product, categoryID, categoryName, brandID, brandName, genderID *string) error {
	switch {
	case categoryID != nil && *categoryID != "":
		id, err := uuid.Parse(*categoryID)
		if err != nil {
			return gorm.ErrRecordNotFound
		}
		var category models.Category
		if err := tx.First(&category, "store_id = ? AND id = ?", storeID, id).Error; err != nil {
			return err
		}
		product.CategoryID = &category.ID
	case categoryName != nil && *categoryName != "":
		category, err := GetOrCreateCategory(tx, storeID, *categoryName)
		if err != nil {
			return err
		}
		product.CategoryID = &category.ID
	}

	switch {
	case brandID != nil && *brandID != "":
		id, err := uuid.Parse(*brandID)
		if err != nil {
			return gorm.ErrRecordNotFound
		}
		var brand models.Brand
		if err := tx.First(&brand, "store_id = ? AND id = ?", storeID, id).Error; err != nil {
			return err
		}
		product.BrandID = &brand.ID
	case brandName != nil && *brandName != "":
		brand, err := GetOrCreateBrand(tx, storeID, *brandName)
		if err != nil {
			return err
		}
		product.BrandID = &brand.ID
	}

	if genderID != nil && *genderID != "" {
		id, err := uuid.Parse(*genderID)
		if err != nil {
			return gorm.ErrRecordNotFound
		}
		var gender models.Gender
		if err := tx.First(&gender, "id = ?", id).Error; err != nil {
			return err
		}
		product.GenderID = &gender.ID
	}

	return nil
}

// GetProduct retrieves a product with all associations, through the redis
// cache when available.
func (r *ProductsRepository) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	if product := r.cachedProduct(ctx, storeID, productID); product != nil {
		return product, nil
	}

	product, err := r.fetchProduct(ctx, storeID, "products.id = ?", productID)
	if err != nil {
		return nil, err
	}
	r.cacheProduct(ctx, product)
	return product, nil
}

// GetProductBySlug retrieves a product by its store-scoped slug.
func (r *ProductsRepository) GetProductBySlug(ctx context.Context, storeID uuid.UUID, productSlug string) (*models.Product, error) {
	return r.fetchProduct(ctx, storeID, "products.slug = ?", productSlug)
}

func (r *ProductsRepository) fetchProduct(ctx context.Context, storeID uuid.UUID, cond string, arg interface{}) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Brand").
		Preload("Gender").
		Preload("Colors").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Preload("Variants.Color").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort, created_at")
		}).
		Where("products.store_id = ?", storeID).
		Where(cond, arg).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns a page of the store's products with optional
// category/brand/gender filters applied by slug.
func (r *ProductsRepository) ListProducts(ctx context.Context, storeID uuid.UUID, q *models.ListProductsQuery, activeOnly bool) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("products.store_id = ?", storeID)
	if activeOnly {
		query = query.Where("products.is_active = ?", true)
	}

	if q.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", q.CategorySlug)
	}
	if q.BrandSlug != "" {
		query = query.
			Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.slug = ?", q.BrandSlug)
	}
	if q.Gender != "" {
		query = query.
			Joins("JOIN genders ON genders.id = products.gender_id").
			Where("LOWER(genders.name) = LOWER(?)", q.Gender)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Preload("Category").
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort, created_at")
		}).
		Order("products.created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProduct updates scalar fields and references. The slug is assigned
// once at creation and never reassigned here, so bookmarked storefront URLs
// keep working.
func (r *ProductsRepository) UpdateProduct(storeID, productID uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "store_id = ? AND id = ?", storeID, productID).Error; err != nil {
			return err
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Country != nil {
			product.Country = *req.Country
		}
		if req.Material != nil {
			product.Material = *req.Material
		}
		if req.IsActive != nil {
			product.IsActive = *req.IsActive
		}
		if err := r.resolveReferences(tx, storeID, &product, req.CategoryID, req.CategoryName, req.BrandID, req.BrandName, req.GenderID); err != nil {
			return err
		}

		return tx.Save(&product).Error
	})
	if err != nil {
		return nil, err
	}

	r.invalidateProduct(storeID, productID)
	return r.GetProduct(context.Background(), storeID, productID)
}

// DeleteProduct removes a product; children cascade at the database level.
func (r *ProductsRepository) DeleteProduct(storeID, productID uuid.UUID) error {
	res := r.db.Where("store_id = ? AND id = ?", storeID, productID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProduct(storeID, productID)
	return nil
}

// IncrementViews bumps the view counter atomically without touching
// updated_at.
func (r *ProductsRepository) IncrementViews(storeID, productID uuid.UUID) error {
	return r.db.Model(&models.Product{}).
		Where("store_id = ? AND id = ?", storeID, productID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// scopedProduct loads a bare product row, verifying store ownership.
func scopedProduct(tx *gorm.DB, storeID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, "store_id = ? AND id = ?", storeID, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

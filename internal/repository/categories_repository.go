package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/slug"
)

// CategoriesRepository manages the store-scoped lookup entities: categories
// (with their discount windows), brands, and the global gender table.
type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) categorySlug(tx *gorm.DB, storeID uuid.UUID, name string, explicit *string) (string, error) {
	base := slug.Make(name, slug.FallbackCategory)
	if explicit != nil && *explicit != "" {
		base = slug.Make(*explicit, slug.FallbackCategory)
	}
	return slug.Sequential(base, func(candidate string) (bool, error) {
		var count int64
		err := tx.Model(&models.Category{}).
			Where("store_id = ? AND slug = ?", storeID, candidate).
			Count(&count).Error
		return count > 0, err
	})
}

// CreateCategory creates a category with a store-unique slug.
func (r *CategoriesRepository) CreateCategory(storeID uuid.UUID, req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		StoreID:  storeID,
		Name:     req.Name,
		IsActive: true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := applyDiscount(category, req.DiscountPercent, req.DiscountActive, req.DiscountStart, req.DiscountEnd); err != nil {
		return nil, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		s, err := r.categorySlug(tx, storeID, req.Name, req.Slug)
		if err != nil {
			return err
		}
		category.Slug = s
		return tx.Create(category).Error
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates category fields. The slug is never reassigned.
func (r *CategoriesRepository) UpdateCategory(storeID, categoryID uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "store_id = ? AND id = ?", storeID, categoryID).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if err := applyDiscount(&category, req.DiscountPercent, req.DiscountActive, req.DiscountStart, req.DiscountEnd); err != nil {
		return nil, err
	}

	if err := r.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category; product references are nulled by the
// foreign key, products themselves survive.
func (r *CategoriesRepository) DeleteCategory(storeID, categoryID uuid.UUID) error {
	res := r.db.Where("store_id = ? AND id = ?", storeID, categoryID).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCategories returns the store's categories ordered by name.
func (r *CategoriesRepository) ListCategories(storeID uuid.UUID, activeOnly bool) ([]models.Category, error) {
	query := r.db.Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	err := query.Order("name").Find(&categories).Error
	return categories, err
}

// GetCategoryBySlug finds a category by its store-scoped slug.
func (r *CategoriesRepository) GetCategoryBySlug(storeID uuid.UUID, categorySlug string) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, "store_id = ? AND slug = ?", storeID, categorySlug).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetOrCreateCategory resolves a category by normalized name within the
// store, creating it when absent. Runs on the caller's transaction.
func GetOrCreateCategory(tx *gorm.DB, storeID uuid.UUID, name string) (*models.Category, error) {
	base := slug.Make(name, slug.FallbackCategory)

	var category models.Category
	err := tx.First(&category, "store_id = ? AND slug = ?", storeID, base).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	category = models.Category{
		StoreID:  storeID,
		Name:     name,
		Slug:     base,
		IsActive: true,
	}
	if err := tx.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Brands

// CreateBrand creates a brand with a store-unique slug.
func (r *CategoriesRepository) CreateBrand(storeID uuid.UUID, req *models.CreateBrandRequest) (*models.Brand, error) {
	brand := &models.Brand{
		StoreID:  storeID,
		Name:     req.Name,
		IsActive: true,
	}
	if req.IsActive != nil {
		brand.IsActive = *req.IsActive
	}

	base := slug.Make(req.Name, slug.FallbackBrand)
	if req.Slug != nil && *req.Slug != "" {
		base = slug.Make(*req.Slug, slug.FallbackBrand)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		s, err := slug.Sequential(base, func(candidate string) (bool, error) {
			var count int64
			err := tx.Model(&models.Brand{}).
				Where("store_id = ? AND slug = ?", storeID, candidate).
				Count(&count).Error
			return count > 0, err
		})
		if err != nil {
			return err
		}
		brand.Slug = s
		return tx.Create(brand).Error
	})
	if err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand removes a brand; product references are nulled.
func (r *CategoriesRepository) DeleteBrand(storeID, brandID uuid.UUID) error {
	res := r.db.Where("store_id = ? AND id = ?", storeID, brandID).Delete(&models.Brand{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListBrands returns the store's brands ordered by name.
func (r *CategoriesRepository) ListBrands(storeID uuid.UUID, activeOnly bool) ([]models.Brand, error) {
	query := r.db.Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var brands []models.Brand
	err := query.Order("name").Find(&brands).Error
	return brands, err
}

// GetOrCreateBrand resolves a brand by normalized name within the store,
// creating it when absent. Runs on the caller's transaction.
func GetOrCreateBrand(tx *gorm.DB, storeID uuid.UUID, name string) (*models.Brand, error) {
	base := slug.Make(name, slug.FallbackBrand)

	var brand models.Brand
	err := tx.First(&brand, "store_id = ? AND slug = ?", storeID, base).Error
	if err == nil {
		return &brand, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	brand = models.Brand{
		StoreID:  storeID,
		Name:     name,
		Slug:     base,
		IsActive: true,
	}
	if err := tx.Create(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// Genders

// ListGenders returns the global gender lookup values.
func (r *CategoriesRepository) ListGenders() ([]models.Gender, error) {
	var genders []models.Gender
	err := r.db.Order("name").Find(&genders).Error
	return genders, err
}

// applyDiscount merges discount fields from a request into a category,
// parsing the RFC 3339 window bounds.
func applyDiscount(category *models.Category, percent *decimal.Decimal, active *bool, start, end *string) error {
	if percent != nil {
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
			return ErrInvalidDiscount
		}
		category.DiscountPercent = *percent
	}
	if active != nil {
		category.DiscountActive = *active
	}
	if start != nil {
		if *start == "" {
			category.DiscountStart = nil
		} else {
			t, err := time.Parse(time.RFC3339, *start)
			if err != nil {
				return err
			}
			category.DiscountStart = &t
		}
	}
	if end != nil {
		if *end == "" {
			category.DiscountEnd = nil
		} else {
			t, err := time.Parse(time.RFC3339, *end)
			if err != nil {
				return err
			}
			category.DiscountEnd = &t
		}
	}
	return nil
}

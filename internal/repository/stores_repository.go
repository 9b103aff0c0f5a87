package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/slug"
)

type StoresRepository struct {
	db *gorm.DB
}

func NewStoresRepository(db *gorm.DB) *StoresRepository {
	return &StoresRepository{db: db}
}

// ActiveBySubdomain finds the store serving a subdomain. Missing, disabled
// and blocked stores all collapse to ErrRecordNotFound so callers cannot
// tell them apart.
func (r *StoresRepository) ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("subdomain = ? AND is_active = ? AND is_blocked = ?", subdomain, true, false).
		First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// CreateStore provisions a store. The subdomain is derived from the name
// when absent and made unique with a sequential suffix; store creation is
// rare enough that the scan's race window is acceptable.
func (r *StoresRepository) CreateStore(req *models.CreateStoreRequest) (*models.Store, error) {
	store := &models.Store{
		Name:     req.Name,
		IsActive: true,
	}
	if req.Slogan != nil {
		store.Slogan = *req.Slogan
	}
	if req.Phone != nil {
		store.Phone = *req.Phone
	}
	if req.Email != nil {
		store.Email = *req.Email
	}

	base := slug.Make(req.Name, slug.FallbackStore)
	if req.Subdomain != nil && *req.Subdomain != "" {
		base = slug.Make(*req.Subdomain, slug.FallbackStore)
	}
	sub, err := slug.Sequential(base, func(candidate string) (bool, error) {
		var count int64
		if err := r.db.Model(&models.Store{}).Where("subdomain = ?", candidate).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		return nil, err
	}
	store.Subdomain = sub

	if err := r.db.Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// GetStore fetches a store with its social links.
func (r *StoresRepository) GetStore(storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.Preload("Socials", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort, created_at")
	}).First(&store, "id = ?", storeID).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// UpdateStore updates profile fields. The subdomain is immutable.
func (r *StoresRepository) UpdateStore(storeID uuid.UUID, req *models.UpdateStoreRequest) (*models.Store, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slogan != nil {
		updates["slogan"] = *req.Slogan
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsBlocked != nil {
		updates["is_blocked"] = *req.IsBlocked
	}

	res := r.db.Model(&models.Store{}).Where("id = ?", storeID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetStore(storeID)
}

// ListSocials returns a store's social links in display order.
func (r *StoresRepository) ListSocials(storeID uuid.UUID) ([]models.StoreSocial, error) {
	var socials []models.StoreSocial
	err := r.db.Where("store_id = ?", storeID).Order("sort, created_at").Find(&socials).Error
	return socials, err
}

// CreateSocial adds a social link to a store.
func (r *StoresRepository) CreateSocial(storeID uuid.UUID, req *models.SaveSocialRequest) (*models.StoreSocial, error) {
	social := &models.StoreSocial{
		StoreID: storeID,
		Name:    req.Name,
		Link:    req.Link,
	}
	if req.Sort != nil {
		social.Sort = *req.Sort
	}
	if err := r.db.Create(social).Error; err != nil {
		return nil, err
	}
	return social, nil
}

// UpdateSocial edits a social link, scoped to the store.
func (r *StoresRepository) UpdateSocial(storeID, socialID uuid.UUID, req *models.SaveSocialRequest) (*models.StoreSocial, error) {
	updates := map[string]interface{}{
		"name":       req.Name,
		"link":       req.Link,
		"updated_at": time.Now(),
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
	}
	res := r.db.Model(&models.StoreSocial{}).
		Where("store_id = ? AND id = ?", storeID, socialID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var social models.StoreSocial
	if err := r.db.First(&social, "id = ?", socialID).Error; err != nil {
		return nil, err
	}
	return &social, nil
}

// DeleteSocial removes a social link, scoped to the store.
func (r *StoresRepository) DeleteSocial(storeID, socialID uuid.UUID) error {
	res := r.db.Where("store_id = ? AND id = ?", storeID, socialID).Delete(&models.StoreSocial{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

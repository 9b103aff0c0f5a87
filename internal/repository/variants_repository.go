package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
)

// Colors.

func createColorTx(tx *gorm.DB, productID uuid.UUID, req *models.CreateColorRequest) (*models.ProductColor, error) {
	hex, err := models.NormalizeHex(req.Hex)
	if err != nil {
		return nil, err
	}
	color := &models.ProductColor{
		ProductID: productID,
		Name:      req.Name,
		Hex:       hex,
	}
	if err := tx.Create(color).Error; err != nil {
		return nil, err
	}
	return color, nil
}

// AddColor attaches a color to a product. The same hex may exist on other
// products, but only once per product.
func (r *ProductsRepository) AddColor(storeID, productID uuid.UUID, req *models.CreateColorRequest) (*models.ProductColor, error) {
	var color *models.ProductColor
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		var err error
		color, err = createColorTx(tx, productID, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.invalidateProduct(storeID, productID)
	return color, nil
}

// DeleteColor removes a color. Variants and images referencing it keep
// existing with their color reference nulled by the database, so the price
// range is unaffected.
func (r *ProductsRepository) DeleteColor(storeID, productID, colorID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		res := tx.Where("product_id = ? AND id = ?", productID, colorID).Delete(&models.ProductColor{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.invalidateProduct(storeID, productID)
	return nil
}

// Variants.

// resolveColorTx maps a variant's color reference (by id or by hex) to a
// color row of this product. colorsByHex carries colors created earlier in
// the same transaction, before they are visible through the usual reads.
func resolveColorTx(tx *gorm.DB, productID uuid.UUID, colorID, colorHex *string, colorsByHex map[string]*models.ProductColor) (*models.ProductColor, error) {
	switch {
	case colorID != nil && *colorID != "":
		id, err := uuid.Parse(*colorID)
		if err != nil {
			return nil, ErrColorNotFound
		}
		var color models.ProductColor
		if err := tx.First(&color, "product_id = ? AND id = ?", productID, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrColorNotFound
			}
			return nil, err
		}
		return &color, nil
	case colorHex != nil && *colorHex != "":
		hex, err := models.NormalizeHex(*colorHex)
		if err != nil {
			return nil, err
		}
		if color, ok := colorsByHex[hex]; ok {
			return color, nil
		}
		var color models.ProductColor
		if err := tx.First(&color, "product_id = ? AND hex = ?", productID, hex).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrColorNotFound
			}
			return nil, err
		}
		return &color, nil
	}
	return nil, nil
}

func (r *ProductsRepository) createVariantTx(tx *gorm.DB, product *models.Product, req *models.CreateVariantRequest, colorsByHex map[string]*models.ProductColor) (*models.ProductVariant, error) {
	if req.OldPrice != nil && req.OldPrice.LessThan(req.Price) {
		return nil, ErrOldPriceBelowPrice
	}

	color, err := resolveColorTx(tx, product.ID, req.ColorID, req.ColorHex, colorsByHex)
	if err != nil {
		return nil, err
	}

	variant := &models.ProductVariant{
		ProductID: product.ID,
		Size:      req.Size,
		Price:     req.Price,
		OldPrice:  req.OldPrice,
		IsActive:  true,
	}
	if color != nil {
		variant.ColorID = &color.ID
	}
	if req.Stock != nil {
		variant.Stock = *req.Stock
	}
	if req.IsActive != nil {
		variant.IsActive = *req.IsActive
	}

	if req.SKU != nil && *req.SKU != "" {
		variant.SKU = *req.SKU
	} else {
		hex := ""
		if color != nil {
			hex = color.Hex
		}
		variant.SKU = models.DeriveSKU(product.Slug, hex, req.Size)
	}

	if err := tx.Create(variant).Error; err != nil {
		return nil, err
	}

	if err := r.bus.Publish(tx, events.VariantChanged{ProductID: product.ID, VariantID: variant.ID}); err != nil {
		return nil, err
	}
	return variant, nil
}

// CreateVariant adds a sellable variant to a product, recomputing the price
// range in the same transaction.
func (r *ProductsRepository) CreateVariant(storeID, productID uuid.UUID, req *models.CreateVariantRequest) (*models.ProductVariant, error) {
	var variant *models.ProductVariant
	err := r.db.Transaction(func(tx *gorm.DB) error {
		product, err := scopedProduct(tx, storeID, productID)
		if err != nil {
			return err
		}
		variant, err = r.createVariantTx(tx, product, req, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.invalidateProduct(storeID, productID)
	return variant, nil
}

// applyVariantPatch merges an update request into a variant. An empty
// colorId clears the color; a non-empty one must resolve to a color of the
// same product. Reports whether the price or active flag changed, which is
// what decides a price-range recomputation.
func applyVariantPatch(variant *models.ProductVariant, req *models.UpdateVariantRequest, resolveColor func(id string) (*models.ProductColor, error)) (priceChanged, activeChanged bool, err error) {
	if req.ColorID != nil {
		if *req.ColorID == "" {
			variant.ColorID = nil
		} else {
			color, err := resolveColor(*req.ColorID)
			if err != nil {
				return false, false, err
			}
			if color == nil {
				return false, false, ErrColorNotFound
			}
			variant.ColorID = &color.ID
		}
	}
	if req.Size != nil {
		variant.Size = *req.Size
	}
	if req.SKU != nil && *req.SKU != "" {
		variant.SKU = *req.SKU
	}
	if req.Stock != nil {
		variant.Stock = *req.Stock
	}

	if req.Price != nil && !req.Price.Equal(variant.Price) {
		variant.Price = *req.Price
		priceChanged = true
	}
	if req.OldPrice != nil {
		variant.OldPrice = req.OldPrice
	}
	if variant.OldPrice != nil && variant.OldPrice.LessThan(variant.Price) {
		return false, false, ErrOldPriceBelowPrice
	}
	if req.IsActive != nil && *req.IsActive != variant.IsActive {
		variant.IsActive = *req.IsActive
		activeChanged = true
	}
	return priceChanged, activeChanged, nil
}

// UpdateVariant edits a variant. Price and active-flag changes trigger a
// price-range recomputation; other edits do not.
func (r *ProductsRepository) UpdateVariant(storeID, productID, variantID uuid.UUID, req *models.UpdateVariantRequest) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		if err := tx.First(&variant, "product_id = ? AND id = ?", productID, variantID).Error; err != nil {
			return err
		}

		priceChanged, activeChanged, err := applyVariantPatch(&variant, req, func(id string) (*models.ProductColor, error) {
			return resolveColorTx(tx, productID, &id, nil, nil)
		})
		if err != nil {
			return err
		}

		if err := tx.Save(&variant).Error; err != nil {
			return err
		}

		if priceChanged || activeChanged {
			return r.bus.Publish(tx, events.VariantChanged{ProductID: productID, VariantID: variant.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.invalidateProduct(storeID, productID)
	return &variant, nil
}

// DeleteVariant removes a variant and recomputes the price range.
func (r *ProductsRepository) DeleteVariant(storeID, productID, variantID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		res := tx.Where("product_id = ? AND id = ?", productID, variantID).Delete(&models.ProductVariant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return r.bus.Publish(tx, events.VariantChanged{ProductID: productID, VariantID: variantID, Deleted: true})
	})
	if err != nil {
		return err
	}
	r.invalidateProduct(storeID, productID)
	return nil
}

// Images.

func createImageTx(tx *gorm.DB, productID uuid.UUID, req *models.AddImageRequest) (*models.ProductImage, error) {
	image := &models.ProductImage{
		ProductID: productID,
		URL:       req.URL,
	}
	if req.ColorID != nil && *req.ColorID != "" {
		color, err := resolveColorTx(tx, productID, req.ColorID, nil, nil)
		if err != nil {
			return nil, err
		}
		image.ColorID = &color.ID
	}
	if req.IsMain != nil {
		image.IsMain = *req.IsMain
	}
	if req.Sort != nil {
		image.Sort = *req.Sort
	}
	if err := tx.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// AddImage attaches an image and re-normalizes the main flag, so the
// product always ends up with exactly one main image.
func (r *ProductsRepository) AddImage(storeID, productID uuid.UUID, req *models.AddImageRequest) (*models.ProductImage, error) {
	var image *models.ProductImage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		var err error
		image, err = createImageTx(tx, productID, req)
		if err != nil {
			return err
		}
		if image.IsMain {
			return setMainTx(tx, productID, image.ID)
		}
		return normalizeMainImage(tx, productID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateProduct(storeID, productID)
	return image, nil
}

// UpdateImage edits the main flag and sort order of an image.
func (r *ProductsRepository) UpdateImage(storeID, productID, imageID uuid.UUID, req *models.UpdateImageRequest) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		if err := tx.First(&image, "product_id = ? AND id = ?", productID, imageID).Error; err != nil {
			return err
		}

		if req.Sort != nil {
			image.Sort = *req.Sort
		}
		if req.IsMain != nil {
			image.IsMain = *req.IsMain
		}
		if err := tx.Save(&image).Error; err != nil {
			return err
		}

		if req.IsMain != nil && *req.IsMain {
			return setMainTx(tx, productID, image.ID)
		}
		return normalizeMainImage(tx, productID)
	})
	if err != nil {
		return nil, err
	}
	r.invalidateProduct(storeID, productID)
	return &image, nil
}

// DeleteImage removes an image and promotes a replacement main when the
// main image was deleted.
func (r *ProductsRepository) DeleteImage(storeID, productID, imageID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		res := tx.Where("product_id = ? AND id = ?", productID, imageID).Delete(&models.ProductImage{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return normalizeMainImage(tx, productID)
	})
	if err != nil {
		return err
	}
	r.invalidateProduct(storeID, productID)
	return nil
}

// SetMainImage makes the given image the product's single main image.
func (r *ProductsRepository) SetMainImage(storeID, productID, imageID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := scopedProduct(tx, storeID, productID); err != nil {
			return err
		}
		var image models.ProductImage
		if err := tx.First(&image, "product_id = ? AND id = ?", productID, imageID).Error; err != nil {
			return err
		}
		return setMainTx(tx, productID, imageID)
	})
	if err != nil {
		return err
	}
	r.invalidateProduct(storeID, productID)
	return nil
}

// setMainTx clears every main flag on the product and sets the target one.
func setMainTx(tx *gorm.DB, productID, imageID uuid.UUID) error {
	err := tx.Model(&models.ProductImage{}).
		Where("product_id = ? AND id <> ?", productID, imageID).
		Where("is_main = ?", true).
		Update("is_main", false).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.ProductImage{}).
		Where("id = ?", imageID).
		Update("is_main", true).Error
}

// normalizeMainImage restores the at-most-one-main invariant: when zero or
// several images are flagged, the pick falls to the flagged image with the
// lowest sort, else the earliest-sorted image overall.
func normalizeMainImage(tx *gorm.DB, productID uuid.UUID) error {
	var images []models.ProductImage
	if err := tx.Where("product_id = ?", productID).Order("sort, created_at").Find(&images).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}

	mains := 0
	for _, img := range images {
		if img.IsMain {
			mains++
		}
	}
	if mains == 1 {
		return nil
	}

	pick := models.PickMainIndex(images)
	return setMainTx(tx, productID, images[pick].ID)
}

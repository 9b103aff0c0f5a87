package models

import "github.com/shopspring/decimal"

// CreateCategoryRequest creates a category. Slug is derived from the name
// when absent.
type CreateCategoryRequest struct {
	Name            string           `json:"name" binding:"required"`
	Slug            *string          `json:"slug,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountActive  *bool            `json:"discountActive,omitempty"`
	DiscountStart   *string          `json:"discountStart,omitempty"` // RFC 3339
	DiscountEnd     *string          `json:"discountEnd,omitempty"`   // RFC 3339
}

// UpdateCategoryRequest updates category fields, including the discount
// window.
type UpdateCategoryRequest struct {
	Name            *string          `json:"name,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	DiscountActive  *bool            `json:"discountActive,omitempty"`
	DiscountStart   *string          `json:"discountStart,omitempty"`
	DiscountEnd     *string          `json:"discountEnd,omitempty"`
}

// CreateBrandRequest creates a brand.
type CreateBrandRequest struct {
	Name     string  `json:"name" binding:"required"`
	Slug     *string `json:"slug,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// CreateProductRequest creates a product with optional inline colors,
// variants and images; the whole payload is applied in one transaction.
// Category and brand may be referenced by ID or resolved/created by name.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
	Material    *string `json:"material,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`

	CategoryID   *string `json:"categoryId,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	BrandID      *string `json:"brandId,omitempty"`
	BrandName    *string `json:"brandName,omitempty"`
	GenderID     *string `json:"genderId,omitempty"`

	Colors   []CreateColorRequest   `json:"colors,omitempty"`
	Variants []CreateVariantRequest `json:"variants,omitempty"`
	Images   []AddImageRequest      `json:"images,omitempty"`
}

// UpdateProductRequest updates product scalar fields and references. The
// slug is assigned once at creation and never reassigned here.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
	Material    *string `json:"material,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`

	CategoryID   *string `json:"categoryId,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	BrandID      *string `json:"brandId,omitempty"`
	BrandName    *string `json:"brandName,omitempty"`
	GenderID     *string `json:"genderId,omitempty"`
}

// CreateColorRequest adds a color to a product.
type CreateColorRequest struct {
	Name string `json:"name,omitempty"`
	Hex  string `json:"hex" binding:"required"`
}

// CreateVariantRequest adds a sellable variant. ColorHex may reference a
// color of the same product instead of ColorID. SKU is derived when blank.
type CreateVariantRequest struct {
	ColorID  *string          `json:"colorId,omitempty"`
	ColorHex *string          `json:"colorHex,omitempty"`
	Size     string           `json:"size,omitempty"`
	SKU      *string          `json:"sku,omitempty"`
	Price    decimal.Decimal  `json:"price" binding:"required"`
	OldPrice *decimal.Decimal `json:"oldPrice,omitempty"`
	Stock    *uint            `json:"stock,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// UpdateVariantRequest updates a variant. Price and active-flag changes
// trigger a price-range recomputation on the parent product.
type UpdateVariantRequest struct {
	ColorID  *string          `json:"colorId,omitempty"`
	Size     *string          `json:"size,omitempty"`
	SKU      *string          `json:"sku,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	OldPrice *decimal.Decimal `json:"oldPrice,omitempty"`
	Stock    *uint            `json:"stock,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// AddImageRequest attaches an image to a product.
type AddImageRequest struct {
	URL     string  `json:"url" binding:"required"`
	ColorID *string `json:"colorId,omitempty"`
	IsMain  *bool   `json:"isMain,omitempty"`
	Sort    *int    `json:"sort,omitempty"`
}

// UpdateImageRequest edits image flags and ordering.
type UpdateImageRequest struct {
	IsMain *bool `json:"isMain,omitempty"`
	Sort   *int  `json:"sort,omitempty"`
}

// ListProductsQuery captures storefront product list filters.
type ListProductsQuery struct {
	CategorySlug string `form:"category"`
	BrandSlug    string `form:"brand"`
	Gender       string `form:"gender"`
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=20"`
}

package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Canonical hex color format. Short #RGB forms are rejected; values are
// uppercased before storage so #ff00aa and #FF00AA collide.
var hexPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

var ErrInvalidHex = errors.New("hex color must be in #RRGGBB format")

// NormalizeHex trims and uppercases a hex color, validating the canonical
// #RRGGBB form.
func NormalizeHex(hex string) (string, error) {
	hx := strings.ToUpper(strings.TrimSpace(hex))
	if !hexPattern.MatchString(hx) {
		return "", ErrInvalidHex
	}
	return hx, nil
}

// MaxSKULength bounds derived SKUs; explicit caller-supplied SKUs are stored
// verbatim.
const MaxSKULength = 64

// DeriveSKU builds a deterministic SKU from the product slug, the variant's
// color hex and its size. The same triple always yields the same SKU, so
// re-saving an unchanged variant never rewrites it.
func DeriveSKU(productSlug, colorHex, size string) string {
	color := "nocolor"
	if colorHex != "" {
		color = strings.ToLower(strings.TrimPrefix(colorHex, "#"))
	}
	sz := normalizeSKUToken(size)
	if sz == "" {
		sz = "nosize"
	}
	sku := productSlug + "-" + color + "-" + sz
	if len(sku) > MaxSKULength {
		sku = sku[:MaxSKULength]
	}
	return sku
}

func normalizeSKUToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Category groups products within a store and optionally carries a
// time-bounded percentage discount applied to every variant beneath it.
type Category struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID uuid.UUID `json:"storeId" gorm:"type:uuid;not null;index;index:idx_categories_store_slug,unique"`

	Name     string `json:"name" gorm:"size:100;not null"`
	Slug     string `json:"slug" gorm:"size:120;not null;index:idx_categories_store_slug,unique"`
	IsActive bool   `json:"isActive" gorm:"not null;default:true"`

	DiscountPercent decimal.Decimal `json:"discountPercent" gorm:"type:decimal(5,2);not null;default:0"`
	DiscountActive  bool            `json:"discountActive" gorm:"not null;default:false"`
	DiscountStart   *time.Time      `json:"discountStart,omitempty"`
	DiscountEnd     *time.Time      `json:"discountEnd,omitempty"`

	Store *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// DiscountActiveAt reports whether the category discount applies at t.
// Open-ended bounds are treated as unbounded.
func (c *Category) DiscountActiveAt(t time.Time) bool {
	if c == nil || !c.DiscountActive || !c.DiscountPercent.IsPositive() {
		return false
	}
	if c.DiscountStart != nil && t.Before(*c.DiscountStart) {
		return false
	}
	if c.DiscountEnd != nil && t.After(*c.DiscountEnd) {
		return false
	}
	return true
}

// Brand is a store-scoped lookup entity.
type Brand struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID uuid.UUID `json:"storeId" gorm:"type:uuid;not null;index;index:idx_brands_store_slug,unique"`

	Name     string `json:"name" gorm:"size:100;not null"`
	Slug     string `json:"slug" gorm:"size:120;not null;index:idx_brands_store_slug,unique"`
	IsActive bool   `json:"isActive" gorm:"not null;default:true"`

	Store *Store `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Brand) TableName() string {
	return "brands"
}

// Gender is a global lookup (not store-scoped).
type Gender struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
}

func (Gender) TableName() string {
	return "genders"
}

// Product is the catalog aggregate root within a store. RatingAvg,
// RatingCount, MinPrice and MaxPrice are denormalized caches maintained by
// the consistency engine; they are never written by user-facing operations.
type Product struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID uuid.UUID `json:"storeId" gorm:"type:uuid;not null;index:idx_products_store_active;index:idx_products_store_slug,unique"`

	CategoryID *uuid.UUID `json:"categoryId,omitempty" gorm:"type:uuid;index"`
	BrandID    *uuid.UUID `json:"brandId,omitempty" gorm:"type:uuid;index"`
	GenderID   *uuid.UUID `json:"genderId,omitempty" gorm:"type:uuid;index"`

	Name        string `json:"name" gorm:"size:255;not null"`
	Slug        string `json:"slug" gorm:"size:255;not null;index:idx_products_store_slug,unique"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	Country     string `json:"country,omitempty" gorm:"size:100"`
	Material    string `json:"material,omitempty" gorm:"size:100"`

	Views    uint `json:"views" gorm:"not null;default:0"`
	IsActive bool `json:"isActive" gorm:"not null;default:true;index:idx_products_store_active"`

	RatingAvg   decimal.Decimal `json:"ratingAvg" gorm:"type:decimal(3,2);not null;default:0"`
	RatingCount uint            `json:"ratingCount" gorm:"not null;default:0"`
	MinPrice    decimal.Decimal `json:"minPrice" gorm:"type:decimal(10,2);not null;default:0"`
	MaxPrice    decimal.Decimal `json:"maxPrice" gorm:"type:decimal(10,2);not null;default:0"`

	Store    *Store    `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Brand    *Brand    `json:"brand,omitempty" gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL"`
	Gender   *Gender   `json:"gender,omitempty" gorm:"foreignKey:GenderID;constraint:OnDelete:SET NULL"`

	Colors   []ProductColor   `json:"colors,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images   []ProductImage   `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// ProductColor is scoped to a single product; the same hex may exist on
// different products but only once per product.
type ProductColor struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index;index:idx_colors_product_hex,unique"`

	Name string `json:"name,omitempty" gorm:"size:50"`
	Hex  string `json:"hex" gorm:"size:7;not null;index:idx_colors_product_hex,unique"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProductColor) TableName() string {
	return "product_colors"
}

// ProductVariant is the sellable unit: a concrete (color, size) combination
// carrying price, old price and stock.
type ProductVariant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index:idx_variants_product_active;index:idx_variants_combo,unique"`

	// Nulled when the color is deleted, not cascaded.
	ColorID *uuid.UUID `json:"colorId,omitempty" gorm:"type:uuid;index:idx_variants_combo,unique"`

	Size string `json:"size,omitempty" gorm:"size:20;index:idx_variants_combo,unique"`
	SKU  string `json:"sku,omitempty" gorm:"size:64;index"`

	Price    decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	OldPrice *decimal.Decimal `json:"oldPrice,omitempty" gorm:"type:decimal(10,2);check:chk_old_price_gte_price,old_price IS NULL OR old_price >= price"`

	Stock    uint `json:"stock" gorm:"not null;default:0"`
	IsActive bool `json:"isActive" gorm:"not null;default:true;index:idx_variants_product_active"`

	Color *ProductColor `json:"color,omitempty" gorm:"foreignKey:ColorID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductImage is a product photo, optionally tagged with a color. At most
// one image per product is main; the invariant is kept by write-path
// normalization, not a database constraint.
type ProductImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index:idx_images_product_main"`

	ColorID *uuid.UUID `json:"colorId,omitempty" gorm:"type:uuid"`

	URL    string `json:"url" gorm:"size:512;not null"`
	IsMain bool   `json:"isMain" gorm:"not null;default:false;index:idx_images_product_main"`
	Sort   int    `json:"sort" gorm:"not null;default:0"`

	Color *ProductColor `json:"-" gorm:"foreignKey:ColorID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// PickMainIndex selects which image should be main: the one already flagged
// (lowest sort, then oldest wins if several slipped through), else the
// earliest-sorted image. Returns -1 for an empty slice.
func PickMainIndex(images []ProductImage) int {
	best := -1
	bestMain := false
	for i, img := range images {
		if best == -1 {
			best, bestMain = i, img.IsMain
			continue
		}
		if img.IsMain != bestMain {
			if img.IsMain {
				best, bestMain = i, true
			}
			continue
		}
		if imageBefore(img, images[best]) {
			best = i
		}
	}
	return best
}

func imageBefore(a, b ProductImage) bool {
	if a.Sort != b.Sort {
		return a.Sort < b.Sort
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

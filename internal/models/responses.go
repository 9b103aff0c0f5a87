package models

import "github.com/shopspring/decimal"

// Error codes used across handler responses.
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodeDuplicate            = "DUPLICATE"
	CodeTenantRequired       = "TENANT_REQUIRED"
	CodeWrongDomain          = "WRONG_DOMAIN"
	CodeSlugAllocationFailed = "SLUG_ALLOCATION_FAILED"
	CodeInternalError        = "INTERNAL_ERROR"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// VariantView is the storefront projection of a variant with the pricing
// rule applied at read time.
type VariantView struct {
	ProductVariant
	EffectivePrice    decimal.Decimal  `json:"effectivePrice"`
	EffectiveOldPrice *decimal.Decimal `json:"effectiveOldPrice,omitempty"`
}

// ProductView is the storefront projection of a product: variants with
// effective prices plus the main image.
type ProductView struct {
	Product
	VariantViews []VariantView `json:"variantViews,omitempty"`
	MainImage    *ProductImage `json:"mainImage,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is the tenant root. Every catalog entity hangs off a store and every
// query must be scoped by its ID. The subdomain is assigned once at creation
// and never changes afterwards.
type Store struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Subdomain string    `json:"subdomain" gorm:"size:63;not null;uniqueIndex:idx_stores_subdomain"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	Slogan    string    `json:"slogan,omitempty" gorm:"size:200"`
	Phone     string    `json:"phone,omitempty" gorm:"size:20"`
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	IsBlocked bool      `json:"isBlocked" gorm:"not null;default:false"`

	Socials []StoreSocial `json:"socials,omitempty" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Store) TableName() string {
	return "stores"
}

// StoreSocial is a social media link shown on the storefront (Instagram,
// Telegram, WhatsApp, ...).
type StoreSocial struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoreID uuid.UUID `json:"storeId" gorm:"type:uuid;not null;index"`
	Name    string    `json:"name" gorm:"size:50;not null"`
	Link    string    `json:"link" gorm:"size:255;not null"`
	Sort    int       `json:"sort" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StoreSocial) TableName() string {
	return "store_socials"
}

// CreateStoreRequest provisions a new store. Subdomain is optional; when
// blank it is derived from the name.
type CreateStoreRequest struct {
	Name      string  `json:"name" binding:"required"`
	Subdomain *string `json:"subdomain,omitempty"`
	Slogan    *string `json:"slogan,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
}

// UpdateStoreRequest updates store profile fields. The subdomain is
// immutable and deliberately absent here.
type UpdateStoreRequest struct {
	Name      *string `json:"name,omitempty"`
	Slogan    *string `json:"slogan,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	IsActive  *bool   `json:"isActive,omitempty"`
	IsBlocked *bool   `json:"isBlocked,omitempty"`
}

// SaveSocialRequest creates or updates a social link.
type SaveSocialRequest struct {
	Name string `json:"name" binding:"required"`
	Link string `json:"link" binding:"required,url"`
	Sort *int   `json:"sort,omitempty"`
}

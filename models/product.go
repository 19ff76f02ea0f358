package models

import "time"

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  uint             `gorm:"index;not null" json:"category_id"`
	Category    *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string           `gorm:"not null" json:"name"`
	Slug        string           `gorm:"unique;not null" json:"slug"`
	Description string           `json:"description"`
	IsActive    bool             `gorm:"default:true" json:"is_active"`
	// Image is the storage-relative path; ImageURL carries the resolved
	// public URL and is filled in by handlers, never persisted.
	Image     string           `json:"image"`
	ImageURL  string           `gorm:"-" json:"image_url,omitempty"`
	Variants  []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ProductVariant is the atomic sellable unit. Carts and orders always
// reference a variant, never a bare product.
type ProductVariant struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Name      string   `gorm:"not null" json:"name"`
	Price     float64  `gorm:"not null" json:"price"`
	Stock     int      `gorm:"not null;default:0" json:"stock"`
}

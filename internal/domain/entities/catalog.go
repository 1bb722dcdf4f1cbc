package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand represents a product brand
type Brand struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"` // media URL
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Category represents a catalog category. ParentID is nil for top-level categories.
type Category struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `json:"parentId"`
	Image       string    `json:"image,omitempty"`
	SortOrder   int       `json:"sortOrder,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Product represents a sellable item
type Product struct {
	ID          string             `json:"_id,omitempty"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug,omitempty"`
	Description string             `json:"description,omitempty"`
	SKU         string             `json:"sku,omitempty"`
	Price       decimal.Decimal    `json:"price"`
	SalePrice   *decimal.Decimal   `json:"salePrice,omitempty"`
	Stock       int                `json:"stock"`
	BrandID     string             `json:"brandId,omitempty"`
	CategoryID  string             `json:"categoryId,omitempty"`
	VendorID    string             `json:"vendorId,omitempty"` // set by the server for vendor-owned products
	Images      []string           `json:"images,omitempty"`
	Attributes  []ProductAttribute `json:"attributes,omitempty"`
	Status      string             `json:"status,omitempty"` // draft, active, archived
	IsFeatured  bool               `json:"isFeatured"`
	CreatedAt   time.Time          `json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `json:"updatedAt,omitempty"`
}

// ProductAttribute is a chosen attribute value on a product
type ProductAttribute struct {
	AttributeID string `json:"attributeId"`
	Name        string `json:"name,omitempty"`
	Value       string `json:"value"`
}

// Attribute is a product property (e.g. size, color) with its allowed values
type Attribute struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug,omitempty"`
	Type      string    `json:"type,omitempty"` // select, text, color
	Values    []string  `json:"values"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// EffectivePrice returns the sale price when one is set and lower than the list price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() && p.SalePrice.LessThan(p.Price) {
		return *p.SalePrice
	}
	return p.Price
}

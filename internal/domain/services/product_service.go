package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// Products live at the root of the product service
const productsPath = ""

// ProductInput is the writable part of a product
type ProductInput struct {
	Name        string                      `json:"name"`
	Slug        string                      `json:"slug,omitempty"`
	Description string                      `json:"description,omitempty"`
	SKU         string                      `json:"sku,omitempty"`
	Price       decimal.Decimal             `json:"price"`
	SalePrice   *decimal.Decimal            `json:"salePrice,omitempty"`
	Stock       int                         `json:"stock"`
	BrandID     string                      `json:"brandId,omitempty"`
	CategoryID  string                      `json:"categoryId,omitempty"`
	Images      []string                    `json:"images,omitempty"`
	Attributes  []entities.ProductAttribute `json:"attributes,omitempty"`
	Status      string                      `json:"status,omitempty"`
	IsFeatured  bool                        `json:"isFeatured"`
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	entities.ListParams
	BrandID    string
	CategoryID string
	VendorID   string
}

// ProductService manages products on the product service
type ProductService struct {
	api *client.Client
}

// NewProductService creates a new product service
func NewProductService(api *client.Client) *ProductService {
	return &ProductService{api: api}
}

// List returns one page of products
func (s *ProductService) List(ctx context.Context, filter ProductFilter) (*entities.Page[entities.Product], error) {
	q := listQuery(filter.ListParams)
	if filter.BrandID != "" {
		q["brandId"] = filter.BrandID
	}
	if filter.CategoryID != "" {
		q["categoryId"] = filter.CategoryID
	}
	if filter.VendorID != "" {
		q["vendorId"] = filter.VendorID
	}

	raw, err := s.api.Get(ctx, productsPath, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return decodePage[entities.Product](raw)
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id string) (*entities.Product, error) {
	raw, err := s.api.Get(ctx, resourcePath(productsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return decode[entities.Product](raw)
}

// Create creates a product after basic price checks
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*entities.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if err := validatePricing(in); err != nil {
		return nil, err
	}
	in.Slug = ensureSlug(in.Slug, in.Name)

	raw, err := s.api.Post(ctx, productsPath, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return decode[entities.Product](raw)
}

// Update replaces a product's writable fields
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*entities.Product, error) {
	if err := validatePricing(in); err != nil {
		return nil, err
	}
	raw, err := s.api.Put(ctx, resourcePath(productsPath, id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return decode[entities.Product](raw)
}

// SetStatus changes a product's status (draft, active, archived)
func (s *ProductService) SetStatus(ctx context.Context, id, status string) (*entities.Product, error) {
	raw, err := s.api.Put(ctx, resourcePath(productsPath, id, "status"), map[string]string{"status": status})
	if err != nil {
		return nil, fmt.Errorf("failed to set product status: %w", err)
	}
	return decode[entities.Product](raw)
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	raw, err := s.api.Delete(ctx, resourcePath(productsPath, id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkEnvelope(raw)
}

func validatePricing(in ProductInput) error {
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if in.SalePrice != nil && in.SalePrice.GreaterThan(in.Price) {
		return fmt.Errorf("%w: sale price must not exceed price", ErrInvalidInput)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	return nil
}

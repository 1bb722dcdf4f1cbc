package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

const brandsPath = "/brands"

// BrandInput is the writable part of a brand
type BrandInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// BrandService manages brands on the product service
type BrandService struct {
	api *client.Client
}

// NewBrandService creates a new brand service
func NewBrandService(api *client.Client) *BrandService {
	return &BrandService{api: api}
}

// List returns one page of brands
func (s *BrandService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Brand], error) {
	raw, err := s.api.Get(ctx, brandsPath, listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return decodePage[entities.Brand](raw)
}

// Get returns a brand by ID
func (s *BrandService) Get(ctx context.Context, id string) (*entities.Brand, error) {
	raw, err := s.api.Get(ctx, resourcePath(brandsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return decode[entities.Brand](raw)
}

// Create creates a brand, deriving the slug from the name when none is given
func (s *BrandService) Create(ctx context.Context, in BrandInput) (*entities.Brand, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrInvalidInput)
	}
	in.Slug = ensureSlug(in.Slug, in.Name)

	raw, err := s.api.Post(ctx, brandsPath, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	return decode[entities.Brand](raw)
}

// Update replaces a brand's writable fields
func (s *BrandService) Update(ctx context.Context, id string, in BrandInput) (*entities.Brand, error) {
	raw, err := s.api.Put(ctx, resourcePath(brandsPath, id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}
	return decode[entities.Brand](raw)
}

// Delete removes a brand
func (s *BrandService) Delete(ctx context.Context, id string) error {
	raw, err := s.api.Delete(ctx, resourcePath(brandsPath, id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	return checkEnvelope(raw)
}

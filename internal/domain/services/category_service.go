package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/catalog"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

const categoriesPath = "/categories"

// CategoryInput is the writable part of a category. A nil ParentID makes it top-level.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug,omitempty"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parentId"`
	Image       string  `json:"image,omitempty"`
	SortOrder   int     `json:"sortOrder,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// CategoryService manages categories on the product service
type CategoryService struct {
	api *client.Client
}

// NewCategoryService creates a new category service
func NewCategoryService(api *client.Client) *CategoryService {
	return &CategoryService{api: api}
}

// List returns one page of categories
func (s *CategoryService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Category], error) {
	raw, err := s.api.Get(ctx, categoriesPath, listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return decodePage[entities.Category](raw)
}

// Tree fetches every category and groups them by parent
func (s *CategoryService) Tree(ctx context.Context) (*catalog.Tree, error) {
	// The category list is small; fetch it in one page
	page, err := s.List(ctx, entities.ListParams{Limit: 1000})
	if err != nil {
		return nil, err
	}
	return catalog.Build(page.Items), nil
}

// Get returns a category by ID
func (s *CategoryService) Get(ctx context.Context, id string) (*entities.Category, error) {
	raw, err := s.api.Get(ctx, resourcePath(categoriesPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return decode[entities.Category](raw)
}

// Create creates a category, deriving the slug from the name when none is given
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*entities.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	in.Slug = ensureSlug(in.Slug, in.Name)
	in.ParentID = normalizeParent(in.ParentID)

	raw, err := s.api.Post(ctx, categoriesPath, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return decode[entities.Category](raw)
}

// Update replaces a category's writable fields. A category cannot become its own parent.
func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*entities.Category, error) {
	in.ParentID = normalizeParent(in.ParentID)
	if in.ParentID != nil && *in.ParentID == id {
		return nil, fmt.Errorf("%w: category cannot be its own parent", ErrInvalidInput)
	}

	raw, err := s.api.Put(ctx, resourcePath(categoriesPath, id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return decode[entities.Category](raw)
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	raw, err := s.api.Delete(ctx, resourcePath(categoriesPath, id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkEnvelope(raw)
}

// normalizeParent maps an empty parent selection to top-level
func normalizeParent(parentID *string) *string {
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		return nil
	}
	return parentID
}

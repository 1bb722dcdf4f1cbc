package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

const attributesPath = "/attributes"

// AttributeInput is the writable part of an attribute
type AttributeInput struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug,omitempty"`
	Type     string   `json:"type,omitempty"`
	Values   []string `json:"values"`
	IsActive *bool    `json:"isActive,omitempty"`
}

// AttributeService manages product attributes on the product service
type AttributeService struct {
	api *client.Client
}

// NewAttributeService creates a new attribute service
func NewAttributeService(api *client.Client) *AttributeService {
	return &AttributeService{api: api}
}

// List returns one page of attributes
func (s *AttributeService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Attribute], error) {
	raw, err := s.api.Get(ctx, attributesPath, listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	return decodePage[entities.Attribute](raw)
}

// Get returns an attribute by ID
func (s *AttributeService) Get(ctx context.Context, id string) (*entities.Attribute, error) {
	raw, err := s.api.Get(ctx, resourcePath(attributesPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get attribute: %w", err)
	}
	return decode[entities.Attribute](raw)
}

// Create creates an attribute. Values are trimmed and de-duplicated, keeping their order.
func (s *AttributeService) Create(ctx context.Context, in AttributeInput) (*entities.Attribute, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: attribute name is required", ErrInvalidInput)
	}
	in.Slug = ensureSlug(in.Slug, in.Name)
	in.Values = uniqueValues(in.Values)

	raw, err := s.api.Post(ctx, attributesPath, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create attribute: %w", err)
	}
	return decode[entities.Attribute](raw)
}

// Update replaces an attribute's writable fields
func (s *AttributeService) Update(ctx context.Context, id string, in AttributeInput) (*entities.Attribute, error) {
	in.Values = uniqueValues(in.Values)
	raw, err := s.api.Put(ctx, resourcePath(attributesPath, id), in)
	if err != nil {
		return nil, fmt.Errorf("failed to update attribute: %w", err)
	}
	return decode[entities.Attribute](raw)
}

// Delete removes an attribute
func (s *AttributeService) Delete(ctx context.Context, id string) error {
	raw, err := s.api.Delete(ctx, resourcePath(attributesPath, id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete attribute: %w", err)
	}
	return checkEnvelope(raw)
}

func uniqueValues(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

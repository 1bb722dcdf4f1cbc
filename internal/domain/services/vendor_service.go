package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// Vendors live at the root of the vendor service
const vendorsPath = ""

var maxCommissionRate = decimal.NewFromInt(100)

// VendorService manages vendor accounts. Status transitions are decided by the server.
type VendorService struct {
	api *client.Client
}

// NewVendorService creates a new vendor service
func NewVendorService(api *client.Client) *VendorService {
	return &VendorService{api: api}
}

// List returns one page of vendors; params.Status filters by VendorStatus
func (s *VendorService) List(ctx context.Context, params entities.ListParams) (*entities.Page[entities.Vendor], error) {
	raw, err := s.api.Get(ctx, vendorsPath, listQuery(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return decodePage[entities.Vendor](raw)
}

// Get returns a vendor by ID
func (s *VendorService) Get(ctx context.Context, id string) (*entities.Vendor, error) {
	raw, err := s.api.Get(ctx, resourcePath(vendorsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return decode[entities.Vendor](raw)
}

// Approve approves a pending vendor
func (s *VendorService) Approve(ctx context.Context, id string) (*entities.Vendor, error) {
	raw, err := s.api.Put(ctx, resourcePath(vendorsPath, id, "approve"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to approve vendor: %w", err)
	}
	return decode[entities.Vendor](raw)
}

// Suspend suspends a vendor with an optional reason
func (s *VendorService) Suspend(ctx context.Context, id, reason string) (*entities.Vendor, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	raw, err := s.api.Put(ctx, resourcePath(vendorsPath, id, "suspend"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to suspend vendor: %w", err)
	}
	return decode[entities.Vendor](raw)
}

// SetCommission sets a vendor's commission rate in percent (0-100)
func (s *VendorService) SetCommission(ctx context.Context, id string, rate decimal.Decimal) (*entities.Vendor, error) {
	if rate.IsNegative() || rate.GreaterThan(maxCommissionRate) {
		return nil, fmt.Errorf("%w: commission rate must be between 0 and 100", ErrInvalidInput)
	}
	raw, err := s.api.Put(ctx, resourcePath(vendorsPath, id, "commission"), map[string]decimal.Decimal{"commissionRate": rate})
	if err != nil {
		return nil, fmt.Errorf("failed to set vendor commission: %w", err)
	}
	return decode[entities.Vendor](raw)
}

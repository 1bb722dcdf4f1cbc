// Package services wraps the backend APIs in typed, per-resource calls used by the CLI and web hosts.
package services

import (
	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
)

// Services bundles every resource service over one client registry
type Services struct {
	Auth          *AuthService
	Brands        *BrandService
	Categories    *CategoryService
	Products      *ProductService
	Attributes    *AttributeService
	Vendors       *VendorService
	Tickets       *TicketService
	Notifications *NotificationService
	Media         *MediaService
}

// New builds all services. opts configure the unauthenticated login client.
func New(reg *client.Registry, tokenManager client.TokenManager, opts ...client.Option) (*Services, error) {
	authService, err := NewAuthService(reg.Auth(), tokenManager, opts...)
	if err != nil {
		return nil, err
	}
	return &Services{
		Auth:          authService,
		Brands:        NewBrandService(reg.Product()),
		Categories:    NewCategoryService(reg.Product()),
		Products:      NewProductService(reg.Product()),
		Attributes:    NewAttributeService(reg.Product()),
		Vendors:       NewVendorService(reg.Vendor()),
		Tickets:       NewTicketService(reg.Support()),
		Notifications: NewNotificationService(reg.Notification()),
		Media:         NewMediaService(reg.Media()),
	}, nil
}

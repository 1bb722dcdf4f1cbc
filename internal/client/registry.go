package client

import (
	"fmt"
	"net/http"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/config"
)

// Registry holds one Client per backend service. All clients share the session provider and
// refresh through the auth service.
type Registry struct {
	clients map[string]*Client
}

// NewRegistry builds a client for every configured service.
// Options apply to every client; WithServiceName is set per service and a refresher against the
// auth base URL is added unless one is supplied.
func NewRegistry(cfg *config.Config, tokenManager TokenManager, opts ...Option) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	// Probe the caller's options for an explicit refresher or HTTP client
	probe := &Client{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.httpClient != nil {
		httpClient = probe.httpClient
	}

	base := []Option{WithHTTPClient(httpClient)}
	if probe.refresher == nil {
		base = append(base, WithRefresher(NewHTTPRefresher(cfg.Services.Auth, httpClient)))
	}

	r := &Registry{clients: make(map[string]*Client, len(config.ServiceNames))}
	for _, service := range config.ServiceNames {
		baseURL, err := cfg.Services.BaseURL(service)
		if err != nil {
			return nil, err
		}

		all := make([]Option, 0, len(base)+len(opts)+1)
		all = append(all, base...)
		all = append(all, opts...)
		all = append(all, WithServiceName(service))

		c, err := NewClient(baseURL, tokenManager, all...)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", service, err)
		}
		r.clients[service] = c
	}
	return r, nil
}

// Client returns the client for a named service, or nil if unknown
func (r *Registry) Client(service string) *Client {
	return r.clients[service]
}

// Auth returns the auth service client
func (r *Registry) Auth() *Client { return r.clients[config.ServiceAuth] }

// Product returns the product service client (brands, categories, products, attributes)
func (r *Registry) Product() *Client { return r.clients[config.ServiceProduct] }

// Vendor returns the vendor service client
func (r *Registry) Vendor() *Client { return r.clients[config.ServiceVendor] }

// Support returns the support ticket service client
func (r *Registry) Support() *Client { return r.clients[config.ServiceSupport] }

// Notification returns the notification service client
func (r *Registry) Notification() *Client { return r.clients[config.ServiceNotification] }

// Media returns the media upload service client
func (r *Registry) Media() *Client { return r.clients[config.ServiceMedia] }

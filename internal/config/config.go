package config

import (
	"fmt"
	"time"
)

// Backend service names. Each one gets its own API client instance.
const (
	ServiceAuth         = "auth"
	ServiceProduct      = "product"
	ServiceVendor       = "vendor"
	ServiceSupport      = "support"
	ServiceNotification = "notification"
	ServiceMedia        = "media"
)

// ServiceNames lists every backend in a stable order
var ServiceNames = []string{
	ServiceAuth,
	ServiceProduct,
	ServiceVendor,
	ServiceSupport,
	ServiceNotification,
	ServiceMedia,
}

// Config represents the admin client configuration
type Config struct {
	Services    ServicesConfig `yaml:"services"`
	Stream      StreamConfig   `yaml:"stream"`
	HTTP        HTTPConfig     `yaml:"http"`
	Environment string         `yaml:"environment" default:"local"` // local, staging, prod
}

// ServicesConfig holds one base URL per backend microservice
type ServicesConfig struct {
	Auth         string `yaml:"auth" validate:"required,url"`
	Product      string `yaml:"product" validate:"required,url"`
	Vendor       string `yaml:"vendor" validate:"required,url"`
	Support      string `yaml:"support" validate:"required,url"`
	Notification string `yaml:"notification" validate:"required,url"`
	Media        string `yaml:"media" validate:"required,url"`
}

// StreamConfig holds the notification push stream settings
type StreamConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"` // Derived from the notification service URL when empty
}

// HTTPConfig holds outbound HTTP settings shared by all API clients
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"` // 0 leaves request lifetime to the transport
}

// BaseURL returns the configured base URL for a named service
func (s *ServicesConfig) BaseURL(service string) (string, error) {
	switch service {
	case ServiceAuth:
		return s.Auth, nil
	case ServiceProduct:
		return s.Product, nil
	case ServiceVendor:
		return s.Vendor, nil
	case ServiceSupport:
		return s.Support, nil
	case ServiceNotification:
		return s.Notification, nil
	case ServiceMedia:
		return s.Media, nil
	default:
		return "", fmt.Errorf("unknown service %q", service)
	}
}

// Set updates the base URL for a named service
func (s *ServicesConfig) Set(service, baseURL string) error {
	switch service {
	case ServiceAuth:
		s.Auth = baseURL
	case ServiceProduct:
		s.Product = baseURL
	case ServiceVendor:
		s.Vendor = baseURL
	case ServiceSupport:
		s.Support = baseURL
	case ServiceNotification:
		s.Notification = baseURL
	case ServiceMedia:
		s.Media = baseURL
	default:
		return fmt.Errorf("unknown service %q", service)
	}
	return nil
}

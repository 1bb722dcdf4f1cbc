package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/urlutil"
)

// EnvVars maps each service to the environment variable that overrides its base URL
var EnvVars = map[string]string{
	ServiceAuth:         "AUTH_SERVICE_URL",
	ServiceProduct:      "PRODUCT_SERVICE_URL",
	ServiceVendor:       "VENDOR_SERVICE_URL",
	ServiceSupport:      "SUPPORT_SERVICE_URL",
	ServiceNotification: "NOTIFICATION_SERVICE_URL",
	ServiceMedia:        "MEDIA_SERVICE_URL",
}

// StreamURLEnvVar overrides the notification push stream URL
const StreamURLEnvVar = "NOTIFICATION_STREAM_URL"

// DefaultConfigPaths defines the default locations to search for configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/config.yaml",
	"./configs/config.yml",
	"/etc/shopadmin/config.yaml",
	"/etc/shopadmin/config.yml",
}

// DefaultServices returns the local development base URLs
func DefaultServices() ServicesConfig {
	return ServicesConfig{
		Auth:         "http://localhost:5000/api/auth",
		Product:      "http://localhost:5001/api/products",
		Vendor:       "http://localhost:5002/api/vendors",
		Support:      "http://localhost:5003/api/support",
		Notification: "http://localhost:5004/api/notifications",
		Media:        "http://localhost:5005/api/media",
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// Load loads the configuration from the specified file or default locations.
// Precedence, lowest to highest: built-in defaults, config file, .env file, process environment.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal; real environment variables still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.String("error", err.Error()))
	}

	config := &Config{
		Services:    DefaultServices(),
		Environment: "local",
	}

	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" && fileExists(configPath) {
		slog.Debug("loading config", slog.String("path", configPath))
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		slog.Debug("no config file found, using defaults and environment")
	}

	applyEnv(config)

	if err := finalize(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromDefaults loads configuration using only defaults and environment variables
func LoadFromDefaults() (*Config, error) {
	return Load("")
}

// FromServices builds a validated configuration from explicit base URLs.
// Used by hosts that keep their own service lists (e.g. CLI contexts).
func FromServices(services ServicesConfig) (*Config, error) {
	config := &Config{Services: services, Environment: "local"}
	applyEnv(config)
	if err := finalize(config); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnv lets environment variables take precedence over file values
func applyEnv(config *Config) {
	for _, service := range ServiceNames {
		if v := os.Getenv(EnvVars[service]); v != "" {
			// Set only fails for unknown names, and ServiceNames are all known
			_ = config.Services.Set(service, v)
		}
	}
	if v := os.Getenv(StreamURLEnvVar); v != "" {
		config.Stream.URL = v
	}
}

func finalize(config *Config) error {
	if config.Stream.URL == "" && config.Services.Notification != "" {
		streamURL, err := urlutil.StreamURL(config.Services.Notification)
		if err != nil {
			return fmt.Errorf("failed to derive notification stream URL: %w", err)
		}
		config.Stream.URL = streamURL
	}
	return validate(config)
}

// findConfigFile searches for a configuration file in default locations
func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

var validate = func() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	return func(config *Config) error {
		if err := v.Struct(config); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return fmt.Errorf("invalid config: %s failed %q validation (value %q)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid config: %w", err)
		}
		if config.HTTP.Timeout < 0 {
			return fmt.Errorf("invalid config: http.timeout must not be negative")
		}
		return nil
	}
}()

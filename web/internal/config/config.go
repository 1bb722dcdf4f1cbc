package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v2"

	apiconfig "github.com/sagar-developer08/admin-ecom-sub000/internal/config"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// WebServerConfig represents the web server configuration.
// The backend service URLs come from the same file's services/stream/http blocks.
type WebServerConfig struct {
	Server  HTTPServer    `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`

	API *apiconfig.Config `yaml:"-"`
}

// HTTPServer holds HTTP server configuration
type HTTPServer struct {
	Host      string `yaml:"host" default:"localhost"`
	Port      int    `yaml:"port" default:"8080"`
	LoginPath string `yaml:"login_path" default:"/login"` // where the browser UI shows its login screen
}

// SessionConfig holds session configuration
type SessionConfig struct {
	Secret string `yaml:"secret"`                   // 32-byte base64-encoded
	Secure bool   `yaml:"secure" default:"false"`   // set behind HTTPS
	MaxAge int    `yaml:"max_age" default:"604800"` // seconds
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`  // Log level: debug, info, warn, error
	Format string `yaml:"format" default:"json"` // Log format: json, text
}

// DefaultConfigPaths defines the default locations to search for web configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/web.yaml",
	"./configs/web.yml",
	"/etc/shopadmin/web.yaml",
}

// Load loads the web server configuration from the specified file or default locations
func Load(configPath string) (*WebServerConfig, error) {
	config := &WebServerConfig{
		Server: HTTPServer{
			Host:      "localhost",
			Port:      8080,
			LoginPath: "/login",
		},
		Session: SessionConfig{
			MaxAge: 7 * 24 * 60 * 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" && fileExists(configPath) {
		slog.Debug("loading web config", slog.String("path", configPath))
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	api, err := apiconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	config.API = api

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
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
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// validate performs basic validation on the web configuration
func validate(config *WebServerConfig) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if config.Server.LoginPath == "" || config.Server.LoginPath[0] != '/' {
		return fmt.Errorf("server.login_path must be an absolute path")
	}
	if config.Session.MaxAge < 0 {
		return fmt.Errorf("session.max_age must not be negative")
	}
	return nil
}

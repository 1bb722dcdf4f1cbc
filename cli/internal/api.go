package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/config"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/services"
)

// sessionExpiredMessage tells the user how to recover from a terminated session
const sessionExpiredMessage = "session expired, run `shopadmin auth login`"

// API bundles the resource services for the current context
type API struct {
	*services.Services
	Credentials *FileCredentials
	Config      *config.Config
}

// NewAPI builds the per-service clients for the current context.
// A terminated session prints a hint to stderr; the command then fails with client.ErrSessionTerminated.
func NewAPI(cfg *Config, stderr io.Writer) (*API, error) {
	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load service configuration: %w", err)
	}

	creds := NewFileCredentials(cfg.CurrentContext)
	onTerminated := func(_ context.Context, _ string) {
		fmt.Fprintln(stderr, sessionExpiredMessage)
	}

	reg, err := client.NewRegistry(clientCfg, creds,
		client.WithSessionTerminated(onTerminated),
		client.WithRefreshDeduplication(nil),
		client.WithRequestIDs(),
		client.WithHeader("User-Agent", "shopadmin-cli"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API clients: %w", err)
	}

	svc, err := services.New(reg, creds, client.WithRequestIDs(), client.WithHeader("User-Agent", "shopadmin-cli"))
	if err != nil {
		return nil, err
	}
	return &API{Services: svc, Credentials: creds, Config: clientCfg}, nil
}

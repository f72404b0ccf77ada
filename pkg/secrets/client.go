// Package secrets reads deployment secrets from HashiCorp Vault so credentials
// never have to live in the config file.
package secrets

import (
	"github.com/hashicorp/vault/api"

	"github.com/school-management-toolkit/registrar/config"
)

const _defaultPath = "secret/data/registrar"

// Client wraps a Vault API client scoped to a single KV v2 path.
type Client struct {
	client *api.Client
	path   string
}

// NewVaultClient creates a Client around an existing Vault API client (for testing).
func NewVaultClient(vaultClient *api.Client, path string) *Client {
	if path == "" {
		path = _defaultPath
	}

	return &Client{client: vaultClient, path: path}
}

// NewClient creates a Client from configuration (production use).
func NewClient(cfg *config.Secrets) (*Client, error) {
	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, err
	}

	client.SetToken(cfg.Token)

	path := cfg.Path
	if path == "" {
		path = _defaultPath
	}

	return &Client{client: client, path: path}, nil
}

package main

import (
	"errors"
	"log"

	"github.com/school-management-toolkit/registrar/config"
	"github.com/school-management-toolkit/registrar/internal/app"
	"github.com/school-management-toolkit/registrar/pkg/secrets"
)

// Sentinel errors for configuration.
var (
	ErrSecretStoreAddressNotConfigured = errors.New("secret store address not configured")
	ErrSecretStoreTokenNotConfigured   = errors.New("secret store token not configured")
)

// Function pointers for better testability.
var (
	initializeConfigFunc = config.NewConfig
	runAppFunc           = app.Run
	newSecretsClientFunc = func(cfg *config.Secrets) (secretsClient, error) {
		return secrets.NewClient(cfg)
	}
)

type secretsClient interface {
	GetKeyValue(key string) (string, error)
	SetKeyValue(key, value string) error
}

func main() {
	cfg, err := initializeConfigFunc()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	client, err := handleSecretsConfig(cfg)
	if err != nil {
		log.Printf("Secret store not in use: %v", err)
	} else {
		app.SecretStore = client

		applySecretsOverrides(cfg, client)
	}

	runAppFunc(cfg)
}

// applySecretsOverrides pulls credentials from Vault, so they never have to
// appear in config files or environment.
func applySecretsOverrides(cfg *config.Config, client secretsClient) {
	if password, err := client.GetKeyValue("admin_password"); err == nil && password != "" {
		cfg.Auth.AdminPassword = password

		log.Println("Admin password loaded from secret store")
	}

	if url, err := client.GetKeyValue("db_url"); err == nil && url != "" {
		cfg.DB.URL = url

		log.Println("Database URL loaded from secret store")
	}
}

func handleSecretsConfig(cfg *config.Config) (secretsClient, error) {
	if cfg.Secrets.Address == "" {
		return nil, ErrSecretStoreAddressNotConfigured
	}

	if cfg.Secrets.Token == "" {
		return nil, ErrSecretStoreTokenNotConfigured
	}

	client, err := newSecretsClientFunc(&cfg.Secrets)
	if err != nil {
		log.Printf("Failed to connect to secret store: %v", err)

		return nil, err
	}

	log.Printf("Connected to secret store at: %s", cfg.Secrets.Address)

	return client, nil
}

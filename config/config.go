package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v2"
)

var RegistrarConfig *Config

type (
	// Config -.
	Config struct {
		App      `yaml:"app"`
		HTTP     `yaml:"http"`
		Log      `yaml:"logger"`
		Secrets  `yaml:"secrets"`
		DB       `yaml:"sqlite"`
		Auth     `yaml:"auth"`
		Security `yaml:"security"`
	}

	// App -.
	App struct {
		Name    string `env-required:"true" yaml:"name" env:"APP_NAME"`
		Repo    string `env-required:"true" yaml:"repo" env:"APP_REPO"`
		Version string `env-required:"true"`
	}

	// HTTP -.
	HTTP struct {
		Host           string   `env-required:"true" yaml:"host" env:"HTTP_HOST"`
		Port           string   `env-required:"true" yaml:"port" env:"HTTP_PORT"`
		AllowedOrigins []string `env-required:"true" yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS"`
		AllowedHeaders []string `env-required:"true" yaml:"allowed_headers" env:"HTTP_ALLOWED_HEADERS"`
		TLS            TLS      `yaml:"tls"`
	}

	// TLS -.
	TLS struct {
		Enabled  bool   `yaml:"enabled" env:"HTTP_TLS_ENABLED"`
		CertFile string `yaml:"certFile" env:"HTTP_TLS_CERT_FILE"`
		KeyFile  string `yaml:"keyFile" env:"HTTP_TLS_KEY_FILE"`
	}

	// Log -.
	Log struct {
		Level string `env-required:"true" yaml:"log_level"   env:"LOG_LEVEL"`
	}

	// Secrets -.
	Secrets struct {
		Address string `yaml:"address" env:"SECRETS_ADDR"`
		Token   string `yaml:"token" env:"SECRETS_TOKEN"`
		Path    string `yaml:"path" env:"SECRETS_PATH"`
	}

	// DB -.
	DB struct {
		PoolMax int    `env-required:"true" yaml:"pool_max" env:"DB_POOL_MAX"`
		URL     string `env:"DB_URL"`
	}

	// Auth -.
	Auth struct {
		AdminUsername string `yaml:"adminUsername" env:"AUTH_ADMIN_USERNAME"`
		AdminPassword string `yaml:"adminPassword" env:"AUTH_ADMIN_PASSWORD"`
	}

	// Security holds the tunables of the in-process security core. Components
	// read these per call, so runtime changes take effect without a restart.
	Security struct {
		MaxLoginAttempts       int `env-required:"true" yaml:"max_login_attempts" env:"SECURITY_MAX_LOGIN_ATTEMPTS"`
		LockoutDurationSeconds int `env-required:"true" yaml:"lockout_duration_seconds" env:"SECURITY_LOCKOUT_DURATION_SECONDS"`
		SessionTimeoutSeconds  int `env-required:"true" yaml:"session_timeout_seconds" env:"SECURITY_SESSION_TIMEOUT_SECONDS"`
		MinPasswordLength      int `env-required:"true" yaml:"min_password_length" env:"SECURITY_MIN_PASSWORD_LENGTH"`
		CleanupIntervalSeconds int `env-required:"true" yaml:"cleanup_interval_seconds" env:"SECURITY_CLEANUP_INTERVAL_SECONDS"`
	}
)

// LockoutDuration -.
func (s Security) LockoutDuration() time.Duration {
	return time.Duration(s.LockoutDurationSeconds) * time.Second
}

// SessionTimeout -.
func (s Security) SessionTimeout() time.Duration {
	return time.Duration(s.SessionTimeoutSeconds) * time.Second
}

// CleanupInterval -.
func (s Security) CleanupInterval() time.Duration {
	return time.Duration(s.CleanupIntervalSeconds) * time.Second
}

// defaultConfig constructs the in-memory default configuration.
func defaultConfig() *Config {
	return &Config{
		App: App{
			Name:    "registrar",
			Repo:    "school-management-toolkit/registrar",
			Version: "DEVELOPMENT",
		},
		HTTP: HTTP{
			Host:           "localhost",
			Port:           "8181",
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"*"},
			TLS: TLS{
				Enabled:  false,
				CertFile: "",
				KeyFile:  "",
			},
		},
		Log: Log{
			Level: "info",
		},
		Secrets: Secrets{
			Address: "",
			Token:   "",
			Path:    "secret/data/registrar",
		},
		DB: DB{
			PoolMax: 2,
			URL:     "",
		},
		Auth: Auth{
			AdminUsername: "admin",
			AdminPassword: "Ch@ngeMe1",
		},
		Security: Security{
			MaxLoginAttempts:       3,
			LockoutDurationSeconds: 900,
			SessionTimeoutSeconds:  3600,
			MinPasswordLength:      8,
			CleanupIntervalSeconds: 300,
		},
	}
}

// resolveConfigPath determines the effective config file path based on a flag value or default location.
func resolveConfigPath(configPathFlag string) (string, error) {
	if configPathFlag != "" {
		return configPathFlag, nil
	}

	ex, err := os.Executable()
	if err != nil {
		return "", err
	}

	exPath := filepath.Dir(ex)

	return filepath.Join(exPath, "config", "config.yml"), nil
}

// readOrInitConfig attempts to read the config file; if it doesn't exist, writes the provided cfg to disk.
func readOrInitConfig(configPath string, cfg *Config) error {
	err := cleanenv.ReadConfig(configPath, cfg)
	if err == nil {
		return nil
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		// Write config file out to disk
		configDir := filepath.Dir(configPath)
		if mkErr := os.MkdirAll(configDir, os.ModePerm); mkErr != nil {
			return mkErr
		}

		file, cErr := os.Create(configPath)
		if cErr != nil {
			return cErr
		}
		defer file.Close()

		encoder := yaml.NewEncoder(file)
		defer encoder.Close()

		if encErr := encoder.Encode(cfg); encErr != nil {
			return encErr
		}

		return nil
	}

	return err
}

// NewConfig returns app config.
func NewConfig() (*Config, error) {
	// set defaults
	RegistrarConfig = defaultConfig()

	// Define a command line flag for the config path
	var configPathFlag string
	if flag.Lookup("config") == nil {
		flag.StringVar(&configPathFlag, "config", "", "path to config file")
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	// Determine the config path
	configPath, err := resolveConfigPath(configPathFlag)
	if err != nil {
		return nil, err
	}

	if err := readOrInitConfig(configPath, RegistrarConfig); err != nil {
		return nil, err
	}

	if err := cleanenv.ReadEnv(RegistrarConfig); err != nil {
		return nil, err
	}

	return RegistrarConfig, nil
}

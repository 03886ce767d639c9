package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Secret manager backends for gateway credentials.
const (
	SecretManagerEnv   = "env"
	SecretManagerLocal = "local"
	SecretManagerAWS   = "aws"
	SecretManagerVault = "vault"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Gateway     GatewayConfig
	Checkout    CheckoutConfig
	Secrets     SecretsConfig
	Webhooks    WebhookConfig
	Logger      LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPPort       int
	MetricsPort    int
	RateLimitRPS   float64
	RateLimitBurst int
	IdentityHeader string
	// OperatorIDs may read stored gateway replies of any customer.
	OperatorIDs []string
	// TemplateDir holds *.html pages that replace or add to the built-in ones.
	TemplateDir string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds Authorize.Net merchant configuration
type GatewayConfig struct {
	LoginID string
	TranKey string
	// MD5Hash is the relay notification secret. Empty disables verification.
	MD5Hash   string
	Debug     bool
	AIMURL    string
	CIMURL    string
	Timeout   time.Duration
	DelimChar string
}

// CheckoutConfig shapes the hosted payment page
type CheckoutConfig struct {
	// Amount is sent with every submission. Empty asks the customer for it.
	Amount          string
	Description     string
	CollectShipping bool
}

// SecretsConfig selects where TranKey and MD5Hash come from
type SecretsConfig struct {
	Manager     string
	TranKeyPath string
	MD5HashPath string

	LocalBasePath string

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	VaultAddress    string
	VaultToken      string
	VaultRoleID     string
	VaultSecretID   string
	VaultNamespace  string
	VaultMountPath  string
	VaultAuthMethod string

	CacheTTL time.Duration
}

// WebhookConfig holds outcome webhook destinations
type WebhookConfig struct {
	URLs        []string
	Secret      string
	MaxAttempts int
	Timeout     time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// LoadFromEnv loads configuration from environment variables, reading .env first when present
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			HTTPPort:       getEnvAsInt("HTTP_PORT", 8080),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
			IdentityHeader: getEnv("IDENTITY_HEADER", "X-User-ID"),
			OperatorIDs:    getEnvAsSlice("OPERATOR_IDS"),
			TemplateDir:    getEnv("TEMPLATE_DIR", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "authnet"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			LoginID:   getEnv("AUTHNET_LOGIN_ID", ""),
			TranKey:   getEnv("AUTHNET_TRAN_KEY", ""),
			MD5Hash:   getEnv("AUTHNET_MD5_HASH", ""),
			Debug:     getEnvAsBool("AUTHNET_DEBUG", false),
			AIMURL:    getEnv("AUTHNET_AIM_URL", ""),
			CIMURL:    getEnv("AUTHNET_CIM_URL", ""),
			Timeout:   time.Duration(getEnvAsInt("AUTHNET_TIMEOUT", 30)) * time.Second,
			DelimChar: getEnv("AUTHNET_DELIM_CHAR", "|"),
		},
		Checkout: CheckoutConfig{
			Amount:          getEnv("CHECKOUT_AMOUNT", ""),
			Description:     getEnv("CHECKOUT_DESCRIPTION", ""),
			CollectShipping: getEnvAsBool("CHECKOUT_COLLECT_SHIPPING", false),
		},
		Secrets: SecretsConfig{
			Manager:         strings.ToLower(getEnv("SECRET_MANAGER", SecretManagerEnv)),
			TranKeyPath:     getEnv("AUTHNET_TRAN_KEY_PATH", "authnet/tran_key"),
			MD5HashPath:     getEnv("AUTHNET_MD5_HASH_PATH", ""),
			LocalBasePath:   getEnv("LOCAL_SECRETS_PATH", "./secrets"),
			AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
			AWSProfile:      getEnv("AWS_PROFILE", ""),
			AWSEndpoint:     getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:    getEnv("VAULT_ADDR", ""),
			VaultToken:      getEnv("VAULT_TOKEN", ""),
			VaultRoleID:     getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:   getEnv("VAULT_SECRET_ID", ""),
			VaultNamespace:  getEnv("VAULT_NAMESPACE", ""),
			VaultMountPath:  getEnv("VAULT_MOUNT_PATH", "secret"),
			VaultAuthMethod: getEnv("VAULT_AUTH_METHOD", "token"),
			CacheTTL:        time.Duration(getEnvAsInt("SECRET_CACHE_TTL_MINUTES", 5)) * time.Minute,
		},
		Webhooks: WebhookConfig{
			URLs:        getEnvAsSlice("OUTCOME_WEBHOOK_URLS"),
			Secret:      getEnv("OUTCOME_WEBHOOK_SECRET", ""),
			MaxAttempts: getEnvAsInt("OUTCOME_WEBHOOK_MAX_ATTEMPTS", 3),
			Timeout:     time.Duration(getEnvAsInt("OUTCOME_WEBHOOK_TIMEOUT", 5)) * time.Second,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields. With an external secret manager the
// transaction key is resolved later, so only its path is required here.
func (c *Config) Validate() error {
	if c.Gateway.LoginID == "" {
		return fmt.Errorf("AUTHNET_LOGIN_ID is required")
	}

	switch c.Secrets.Manager {
	case SecretManagerEnv:
		if c.Gateway.TranKey == "" {
			return fmt.Errorf("AUTHNET_TRAN_KEY is required")
		}
	case SecretManagerLocal, SecretManagerAWS:
		if c.Secrets.TranKeyPath == "" {
			return fmt.Errorf("AUTHNET_TRAN_KEY_PATH is required when SECRET_MANAGER=%s", c.Secrets.Manager)
		}
	case SecretManagerVault:
		if c.Secrets.TranKeyPath == "" {
			return fmt.Errorf("AUTHNET_TRAN_KEY_PATH is required when SECRET_MANAGER=vault")
		}
		if c.Secrets.VaultAddress == "" {
			return fmt.Errorf("VAULT_ADDR is required when SECRET_MANAGER=vault")
		}
	default:
		return fmt.Errorf("unknown SECRET_MANAGER %q", c.Secrets.Manager)
	}

	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma-separated variable, dropping blanks.
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

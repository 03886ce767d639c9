package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"go.uber.org/zap"
)

// Vault auth methods.
const (
	VaultAuthToken   = "token"
	VaultAuthAppRole = "approle"
)

// VaultConfig configures the Vault KV adapter
type VaultConfig struct {
	Address    string
	AuthMethod string

	Token    string
	RoleID   string
	SecretID string

	// Namespace is a Vault Enterprise namespace.
	Namespace string
	MountPath string
	// KVVersion is "v1" or "v2".
	KVVersion string

	CacheTTL      time.Duration
	EnableCache   bool
	TLSSkipVerify bool
}

// DefaultVaultConfig returns default configuration for Vault adapter
func DefaultVaultConfig(address string) *VaultConfig {
	return &VaultConfig{
		Address:     address,
		AuthMethod:  VaultAuthToken,
		MountPath:   "secret",
		KVVersion:   "v2",
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// kvReader is the slice of the Vault logical client the adapter uses.
type kvReader interface {
	ReadWithContext(ctx context.Context, path string) (*vault.Secret, error)
}

type vaultAdapter struct {
	kv     kvReader
	config *VaultConfig
	logger *zap.Logger
	cache  *secretCache
}

// NewVaultAdapter connects and authenticates to Vault.
func NewVaultAdapter(ctx context.Context, cfg *VaultConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSSkipVerify {
		if err := vaultConfig.ConfigureTLS(&vault.TLSConfig{Insecure: true}); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	if err := authenticateVault(ctx, client, cfg); err != nil {
		return nil, fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	logger.Info("Vault adapter initialized",
		zap.String("address", cfg.Address),
		zap.String("auth_method", cfg.AuthMethod),
		zap.String("mount_path", cfg.MountPath),
		zap.String("kv_version", cfg.KVVersion),
	)

	return newVaultAdapter(client.Logical(), cfg, logger), nil
}

func newVaultAdapter(kv kvReader, cfg *VaultConfig, logger *zap.Logger) *vaultAdapter {
	return &vaultAdapter{
		kv:     kv,
		config: cfg,
		logger: logger,
		cache:  newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}
}

func authenticateVault(ctx context.Context, client *vault.Client, cfg *VaultConfig) error {
	switch cfg.AuthMethod {
	case VaultAuthToken:
		if cfg.Token == "" {
			return fmt.Errorf("VAULT_TOKEN is required for token auth")
		}
		client.SetToken(cfg.Token)
		return nil

	case VaultAuthAppRole:
		if cfg.RoleID == "" || cfg.SecretID == "" {
			return fmt.Errorf("VAULT_ROLE_ID and VAULT_SECRET_ID are required for AppRole auth")
		}
		resp, err := client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]interface{}{
			"role_id":   cfg.RoleID,
			"secret_id": cfg.SecretID,
		})
		if err != nil {
			return fmt.Errorf("AppRole login failed: %w", err)
		}
		if resp == nil || resp.Auth == nil {
			return fmt.Errorf("AppRole login returned no auth info")
		}
		client.SetToken(resp.Auth.ClientToken)
		return nil

	default:
		return fmt.Errorf("unsupported auth method: %s", cfg.AuthMethod)
	}
}

func (a *vaultAdapter) dataPath(name string) string {
	if a.config.KVVersion == "v2" {
		return fmt.Sprintf("%s/data/%s", a.config.MountPath, name)
	}
	return fmt.Sprintf("%s/%s", a.config.MountPath, name)
}

// GetSecret resolves "name" or "name#field" against a KV secret. The KV data
// is cached as JSON per name.
func (a *vaultAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	name, field := splitPath(path)

	raw := a.cache.get(name)
	if raw == nil {
		fetched, err := a.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		a.cache.set(name, fetched)
		raw = fetched
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw.Value), &data); err != nil {
		return nil, fmt.Errorf("secret %s: decode cached data: %w", name, err)
	}
	value, err := fromMap(data, field)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", name, err)
	}
	return &ports.Secret{Value: value, Version: raw.Version}, nil
}

// fetch reads the KV entry and returns its data map encoded as JSON.
func (a *vaultAdapter) fetch(ctx context.Context, name string) (*ports.Secret, error) {
	start := time.Now()
	secret, err := a.kv.ReadWithContext(ctx, a.dataPath(name))
	if err != nil {
		a.logger.Error("Failed to retrieve secret from Vault", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to read secret from Vault: %w", err)
	}
	if secret == nil {
		return nil, fmt.Errorf("secret not found: %s", name)
	}

	data := secret.Data
	version := "1"
	if a.config.KVVersion == "v2" {
		inner, ok := secret.Data["data"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid secret format from Vault")
		}
		data = inner
		if metadata, ok := secret.Data["metadata"].(map[string]interface{}); ok {
			if v, ok := metadata["version"].(json.Number); ok {
				version = v.String()
			}
		}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode secret data: %w", err)
	}

	a.logger.Info("Secret retrieved from Vault",
		zap.String("name", name),
		zap.String("version", version),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &ports.Secret{Value: string(encoded), Version: version}, nil
}

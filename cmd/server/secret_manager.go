package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/kevin07696/authnet-service/internal/adapters/secrets"
	"github.com/kevin07696/authnet-service/internal/config"
	"go.uber.org/zap"
)

// initSecretManager returns the backend selected by SECRET_MANAGER, or nil for env.
func initSecretManager(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Manager {
	case config.SecretManagerEnv:
		return nil, nil
	case config.SecretManagerLocal:
		logger.Warn("Using local file secret manager - NOT for production use!",
			zap.String("base_path", cfg.LocalBasePath),
		)
		return secrets.NewLocalSecretManager(cfg.LocalBasePath, logger), nil
	case config.SecretManagerAWS:
		awsCfg := secrets.DefaultAWSSecretsManagerConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		awsCfg.CacheTTL = cfg.CacheTTL
		return secrets.NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)
	case config.SecretManagerVault:
		vaultCfg := secrets.DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.AuthMethod = cfg.VaultAuthMethod
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.RoleID = cfg.VaultRoleID
		vaultCfg.SecretID = cfg.VaultSecretID
		vaultCfg.Namespace = cfg.VaultNamespace
		vaultCfg.MountPath = cfg.VaultMountPath
		vaultCfg.CacheTTL = cfg.CacheTTL
		return secrets.NewVaultAdapter(ctx, vaultCfg, logger)
	default:
		return nil, fmt.Errorf("unknown secret manager %q", cfg.Manager)
	}
}

// resolveGatewaySecrets replaces the env-provided transaction key and MD5
// secret with the values held by the secret manager.
func resolveGatewaySecrets(ctx context.Context, sm ports.SecretManagerAdapter, cfg *config.Config, logger *zap.Logger) error {
	if sm == nil {
		return nil
	}

	tranKey, err := sm.GetSecret(ctx, cfg.Secrets.TranKeyPath)
	if err != nil {
		return fmt.Errorf("failed to fetch transaction key: %w", err)
	}
	cfg.Gateway.TranKey = tranKey.Value

	if cfg.Secrets.MD5HashPath != "" {
		md5Hash, err := sm.GetSecret(ctx, cfg.Secrets.MD5HashPath)
		if err != nil {
			return fmt.Errorf("failed to fetch MD5 hash secret: %w", err)
		}
		cfg.Gateway.MD5Hash = md5Hash.Value
	}

	logger.Info("Gateway secrets resolved",
		zap.String("secret_manager", cfg.Secrets.Manager),
		zap.String("tran_key_version", tranKey.Version),
		zap.Bool("md5_verification", cfg.Gateway.MD5Hash != ""),
	)
	return nil
}

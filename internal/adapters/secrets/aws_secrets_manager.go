package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"go.uber.org/zap"
)

// AWSSecretsManagerConfig configures the AWS Secrets Manager adapter
type AWSSecretsManagerConfig struct {
	Region string
	// Profile selects a shared config profile for local development.
	Profile string
	// Endpoint overrides the service URL, e.g. for LocalStack.
	Endpoint string

	CacheTTL    time.Duration
	EnableCache bool
}

// DefaultAWSSecretsManagerConfig returns default configuration
func DefaultAWSSecretsManagerConfig(region string) *AWSSecretsManagerConfig {
	return &AWSSecretsManagerConfig{
		Region:      region,
		CacheTTL:    5 * time.Minute,
		EnableCache: true,
	}
}

// secretValueGetter is the slice of the Secrets Manager client the adapter uses.
type secretValueGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type awsSecretsManagerAdapter struct {
	client secretValueGetter
	logger *zap.Logger
	cache  *secretCache
}

// NewAWSSecretsManagerAdapter loads the default AWS credential chain and
// returns an adapter reading secrets by name or ARN.
func NewAWSSecretsManagerAdapter(ctx context.Context, cfg *AWSSecretsManagerConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOptions []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		clientOptions = append(clientOptions, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	logger.Info("AWS Secrets Manager adapter initialized",
		zap.String("region", cfg.Region),
		zap.Bool("cache_enabled", cfg.EnableCache),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)

	return newAWSSecretsManagerAdapter(secretsmanager.NewFromConfig(awsConfig, clientOptions...), cfg, logger), nil
}

func newAWSSecretsManagerAdapter(client secretValueGetter, cfg *AWSSecretsManagerConfig, logger *zap.Logger) *awsSecretsManagerAdapter {
	return &awsSecretsManagerAdapter{
		client: client,
		logger: logger,
		cache:  newSecretCache(cfg.EnableCache, cfg.CacheTTL),
	}
}

// GetSecret resolves "name" or "name#field". The whole secret string is
// cached per name, so fields of one secret cost a single call.
func (a *awsSecretsManagerAdapter) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	name, field := splitPath(path)

	raw := a.cache.get(name)
	if raw == nil {
		fetched, err := a.fetch(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get secret %s: %w", name, err)
		}
		a.cache.set(name, fetched)
		raw = fetched
	}

	value, err := pickField(raw.Value, field)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", name, err)
	}
	return &ports.Secret{Value: value, Version: raw.Version}, nil
}

func (a *awsSecretsManagerAdapter) fetch(ctx context.Context, name string) (*ports.Secret, error) {
	start := time.Now()
	result, err := a.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		a.logger.Error("Failed to retrieve secret", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	a.logger.Info("Secret retrieved from AWS Secrets Manager",
		zap.String("name", name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &ports.Secret{
		Value:   aws.ToString(result.SecretString),
		Version: aws.ToString(result.VersionId),
	}, nil
}

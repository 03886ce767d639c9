package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"go.uber.org/zap"
)

// localSecretManager reads credentials from files under basePath.
// Development only.
type localSecretManager struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretManager creates a secret manager rooted at basePath.
func NewLocalSecretManager(basePath string, logger *zap.Logger) ports.SecretManagerAdapter {
	return &localSecretManager{basePath: basePath, logger: logger}
}

// GetSecret reads basePath/name. Paths cannot escape basePath.
func (m *localSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	name, field := splitPath(path)
	filePath := filepath.Join(m.basePath, filepath.Clean("/"+name))

	m.logger.Debug("Reading secret from filesystem", zap.String("path", path))

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("secret not found: %s", name)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	value, err := pickField(string(data), field)
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", name, err)
	}
	return &ports.Secret{Value: value, Version: "local"}, nil
}

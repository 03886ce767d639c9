package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	vault "github.com/hashicorp/vault/api"
	"github.com/kevin07696/authnet-service/internal/adapters/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestPickField(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		want    string
		wantErr bool
	}{
		{name: "plain text", body: "9xY8wV7u\n", want: "9xY8wV7u"},
		{name: "json value key", body: `{"value":"K"}`, want: "K"},
		{name: "json named field", body: `{"tran_key":"TK","md5_hash":"K"}`, field: "md5_hash", want: "K"},
		{name: "json missing field", body: `{"tran_key":"TK"}`, field: "md5_hash", wantErr: true},
		{name: "json without value key", body: `{"tran_key":"TK"}`, wantErr: true},
		{name: "field on plain text", body: "TK", field: "tran_key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickField(tt.body, tt.field)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalSecretManager(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "authnet"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "authnet", "tran_key"), []byte("9xY8wV7u\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "authnet", "credentials"), []byte(`{"tran_key":"TK","md5_hash":"K"}`), 0o600))

	m := NewLocalSecretManager(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	plain, err := m.GetSecret(ctx, "authnet/tran_key")
	require.NoError(t, err)
	assert.Equal(t, "9xY8wV7u", plain.Value)

	md5, err := m.GetSecret(ctx, "authnet/credentials#md5_hash")
	require.NoError(t, err)
	assert.Equal(t, "K", md5.Value)

	_, err = m.GetSecret(ctx, "authnet/missing")
	assert.ErrorContains(t, err, "secret not found")
}

func TestLocalSecretManager_StaysUnderBasePath(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "secrets")
	require.NoError(t, os.MkdirAll(base, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "outside"), []byte("nope"), 0o600))

	m := NewLocalSecretManager(base, zaptest.NewLogger(t))
	_, err := m.GetSecret(context.Background(), "../outside")
	assert.Error(t, err)
}

type fakeSecretsClient struct {
	calls  int
	values map[string]string
}

func (f *fakeSecretsClient) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	v, ok := f.values[aws.ToString(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(v),
		VersionId:    aws.String("v1"),
		Name:         in.SecretId,
	}, nil
}

func TestAWSSecretsManagerAdapter_FieldsShareOneFetch(t *testing.T) {
	client := &fakeSecretsClient{values: map[string]string{
		"authnet-service/credentials": `{"tran_key":"TK","md5_hash":"K"}`,
	}}
	adapter := newAWSSecretsManagerAdapter(client, DefaultAWSSecretsManagerConfig("us-east-1"), zaptest.NewLogger(t))
	ctx := context.Background()

	tranKey, err := adapter.GetSecret(ctx, "authnet-service/credentials#tran_key")
	require.NoError(t, err)
	assert.Equal(t, "TK", tranKey.Value)
	assert.Equal(t, "v1", tranKey.Version)

	md5, err := adapter.GetSecret(ctx, "authnet-service/credentials#md5_hash")
	require.NoError(t, err)
	assert.Equal(t, "K", md5.Value)
	assert.Equal(t, 1, client.calls)

	_, err = adapter.GetSecret(ctx, "missing")
	assert.ErrorContains(t, err, "failed to get secret missing")
}

type fakeKV struct {
	calls int
	data  map[string]*vault.Secret
}

func (f *fakeKV) ReadWithContext(ctx context.Context, path string) (*vault.Secret, error) {
	f.calls++
	return f.data[path], nil
}

func TestVaultAdapter(t *testing.T) {
	kv := &fakeKV{data: map[string]*vault.Secret{
		"secret/data/authnet": {Data: map[string]interface{}{
			"data":     map[string]interface{}{"tran_key": "TK", "value": "default"},
			"metadata": map[string]interface{}{"version": json.Number("4")},
		}},
	}}
	adapter := newVaultAdapter(kv, DefaultVaultConfig("http://vault:8200"), zaptest.NewLogger(t))
	ctx := context.Background()

	s, err := adapter.GetSecret(ctx, "authnet#tran_key")
	require.NoError(t, err)
	assert.Equal(t, "TK", s.Value)
	assert.Equal(t, "4", s.Version)

	s, err = adapter.GetSecret(ctx, "authnet")
	require.NoError(t, err)
	assert.Equal(t, "default", s.Value)
	assert.Equal(t, 1, kv.calls)

	_, err = adapter.GetSecret(ctx, "authnet#md5_hash")
	assert.ErrorContains(t, err, "md5_hash")

	_, err = adapter.GetSecret(ctx, "other")
	assert.ErrorContains(t, err, "secret not found")
}

func TestVaultAdapter_KVv1Path(t *testing.T) {
	cfg := DefaultVaultConfig("http://vault:8200")
	cfg.KVVersion = "v1"
	cfg.MountPath = "kv"
	kv := &fakeKV{data: map[string]*vault.Secret{
		"kv/authnet": {Data: map[string]interface{}{"value": "TK"}},
	}}

	s, err := newVaultAdapter(kv, cfg, zaptest.NewLogger(t)).GetSecret(context.Background(), "authnet")
	require.NoError(t, err)
	assert.Equal(t, "TK", s.Value)
	assert.Equal(t, "1", s.Version)
}

func TestSecretCache_Expires(t *testing.T) {
	c := newSecretCache(true, time.Minute)
	current := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	assert.Nil(t, c.get("missing"))

	c.set("k", &ports.Secret{Value: "v"})
	assert.NotNil(t, c.get("k"))

	current = current.Add(2 * time.Minute)
	assert.Nil(t, c.get("k"))
	assert.NotContains(t, c.entries, "k")
}

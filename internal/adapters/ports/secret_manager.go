package ports

import "context"

// Secret is one resolved credential.
type Secret struct {
	Value   string
	Version string
}

// SecretManagerAdapter resolves gateway credentials by path.
//
// A path may name a single field of a structured secret with "name#field",
// e.g. "authnet/credentials#tran_key". Without a field the secret's "value"
// key is used, or the whole body when it is not JSON.
type SecretManagerAdapter interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}

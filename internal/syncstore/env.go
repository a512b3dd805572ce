package syncstore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// EnvStore provides read-only access to values stored in environment variables.
// Keys map to variable names by prefixing and upper-snake conversion, e.g. the
// key "apiToken" with prefix "SEALBOX_" reads SEALBOX_API_TOKEN.
type EnvStore struct {
	prefix string
}

// Compile-time check to ensure EnvStore implements Store
var _ Store = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore for the given environment variable prefix.
// Returns an error if the prefix is empty.
func NewEnvStore(prefix string) (*EnvStore, error) {
	if prefix == "" {
		return nil, fmt.Errorf("environment prefix cannot be empty")
	}

	return &EnvStore{
		prefix: prefix,
	}, nil
}

// Get returns the values of the environment variables mapped from the given
// keys. Unset variables are omitted from the result. Listing all entries is
// not supported; at least one key is required.
func (e *EnvStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("environment storage cannot be enumerated")
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := os.LookupEnv(e.envName(key)); ok {
			values[key] = v
		}
	}
	return values, nil
}

// Set is not supported for environment variables (they are read-only).
func (e *EnvStore) Set(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fmt.Errorf("environment variable storage is read-only")
}

// envName converts a camelCase key to its prefixed upper-snake variable name.
func (e *EnvStore) envName(key string) string {
	var b strings.Builder
	b.WriteString(e.prefix)
	for i, r := range key {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

package syncstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore provides OS-native secure credential storage.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service;
// one keyring entry is kept per key under a fixed service name. Where the OS
// syncs its credential store (e.g. iCloud Keychain), entries follow the user
// across devices.
type KeyringStore struct {
	service string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore scoped to the given service identifier.
func NewKeyringStore(service string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}

	return &KeyringStore{
		service: service,
	}, nil
}

// Get returns the keyring entries for the given keys. Missing entries are
// omitted from the result. Listing all entries is not supported; at least
// one key is required.
func (k *KeyringStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("keyring storage cannot be enumerated")
	}

	values := make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := keyring.Get(k.service, key)
		if errors.Is(err, keyring.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, nil
}

// Set persists each value as a keyring entry, overwriting any existing value.
func (k *KeyringStore) Set(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for key, value := range values {
		if err := keyring.Set(k.service, key, value); err != nil {
			return err
		}
	}
	return nil
}

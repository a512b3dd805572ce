package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/florianilch/sealbox/internal/syncstore"
)

// StorageKey is the single field in the synchronized store that holds the
// sealed token blob.
const StorageKey = "apiToken"

const (
	saltSize         = 16
	nonceSize        = 12
	keySize          = 32
	pbkdf2Iterations = 100_000

	// minBlobSize is the smallest decoded blob that still carries a salt and
	// nonce. Anything shorter is malformed.
	minBlobSize = saltSize + nonceSize
)

// vaultPassphrase is compiled into the binary. Every stored blob is keyed off
// this value, so changing it invalidates all previously saved tokens.
const vaultPassphrase = "sealbox-static-passphrase-7f3c9d41"

var (
	// ErrEncryptionFailed is returned when sealing a token fails. The
	// underlying cause is logged, not wrapped.
	ErrEncryptionFailed = errors.New("failed to encrypt token")

	// ErrDecryptionFailed is returned when a stored blob cannot be decoded,
	// is too short, or fails authenticated decryption. The underlying cause
	// is logged, not wrapped.
	ErrDecryptionFailed = errors.New("failed to decrypt token")
)

// Vault seals API tokens with passphrase-derived AES-256-GCM before handing
// them to a synchronized key-value store, and unseals them on read.
//
// Each operation is stateless: every encryption derives its own key from a
// fresh salt, so concurrent calls do not interfere beyond last-write-wins on
// the underlying store.
type Vault struct {
	store  syncstore.Store
	logger *slog.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the logger used to record the causes of encryption and
// decryption failures. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vault) {
		v.logger = logger
	}
}

// New creates a Vault backed by the given store.
func New(store syncstore.Store, opts ...Option) (*Vault, error) {
	if store == nil {
		return nil, fmt.Errorf("missing store")
	}

	v := &Vault{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// DeriveKey derives the 256-bit encryption key from the compiled-in
// passphrase and the given 16-byte salt. A nil salt means "generate a fresh
// one"; the salt actually used is returned alongside the key. Deterministic
// for a given salt, no I/O.
func DeriveKey(salt []byte) (key []byte, usedSalt []byte, err error) {
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", err)
		}
	} else if len(salt) != saltSize {
		return nil, nil, fmt.Errorf("salt must be %d bytes, got %d", saltSize, len(salt))
	}

	key, err = pbkdf2.Key(sha256.New, vaultPassphrase, salt, pbkdf2Iterations, keySize)
	if err != nil {
		return nil, nil, fmt.Errorf("derive key: %w", err)
	}
	return key, salt, nil
}

// EncryptToken seals the token under a freshly derived key and returns the
// base64 blob. Any cryptographic failure is logged and reported as
// ErrEncryptionFailed.
func (v *Vault) EncryptToken(plaintext string) (string, error) {
	blob, err := seal(plaintext)
	if err != nil {
		v.logger.Error("token encryption failed", "error", err)
		return "", ErrEncryptionFailed
	}
	return blob, nil
}

// DecryptToken unseals a blob produced by EncryptToken. Any failure, from
// base64 decoding through GCM authentication, is logged and reported as
// ErrDecryptionFailed.
func (v *Vault) DecryptToken(blob string) (string, error) {
	plaintext, err := open(blob)
	if err != nil {
		v.logger.Error("token decryption failed", "error", err)
		return "", ErrDecryptionFailed
	}
	return plaintext, nil
}

// GetToken reads the sealed token from the store and returns its plaintext.
// An absent or empty stored value means no token is configured and yields an
// empty string, not an error. Store errors propagate unchanged.
func (v *Vault) GetToken(ctx context.Context) (string, error) {
	values, err := v.store.Get(ctx, StorageKey)
	if err != nil {
		return "", err
	}

	blob := values[StorageKey]
	if blob == "" {
		return "", nil
	}
	return v.DecryptToken(blob)
}

// SaveToken seals the token and writes it to the store, overwriting any
// previous value wholesale. Store errors propagate unchanged.
func (v *Vault) SaveToken(ctx context.Context, token string) error {
	blob, err := v.EncryptToken(token)
	if err != nil {
		return err
	}
	return v.store.Set(ctx, map[string]string{StorageKey: blob})
}

func seal(plaintext string) (string, error) {
	key, salt, err := DeriveKey(nil)
	if err != nil {
		return "", err
	}
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	blob := make([]byte, 0, minBlobSize+len(plaintext)+aead.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aead.Seal(blob, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

func open(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("decode blob: %w", err)
	}
	if len(raw) < minBlobSize {
		return "", fmt.Errorf("blob too short: %d bytes", len(raw))
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize:minBlobSize]
	ciphertext := raw[minBlobSize:]

	key, _, err := DeriveKey(salt)
	if err != nil {
		return "", err
	}
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open blob: %w", err)
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aead, nil
}

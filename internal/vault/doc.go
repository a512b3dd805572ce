// Package vault encrypts an API token before it reaches synchronized storage
// and decrypts it on the way back.
//
// Tokens are sealed with AES-256-GCM under a key derived from a fixed,
// compiled-in passphrase via PBKDF2 (SHA-256, 100,000 iterations). Every
// encryption draws a fresh random salt and nonce, so sealing the same token
// twice yields different blobs. The sealed blob is stored under a single key
// as one base64 string:
//
//	base64( salt[16] || nonce[12] || ciphertext+tag )
//
// A decoded blob shorter than 28 bytes is malformed. Decryption failures of
// any kind (bad encoding, truncation, tampering, wrong key) surface as
// ErrDecryptionFailed with a generic message; the underlying cause is logged,
// not returned. An absent or empty stored token is not an error: GetToken
// reports it as an empty string.
package vault

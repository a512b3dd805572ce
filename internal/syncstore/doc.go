// Package syncstore provides key-value storage abstractions for synchronized
// application state.
//
// Supports four storage backends with different security and deployment tradeoffs:
//   - File: Local filesystem storage with atomic writes and secure permissions
//   - Env: Read-only environment variable access (requires external secret management)
//   - Keyring: OS-native credential storage (macOS Keychain, Windows Credential Manager, etc.)
//   - LibSQL: Embedded libSQL database, the backend for Turso-style synced replicas
//
// Values are stored as opaque strings; callers that need confidentiality must
// encrypt values before handing them to a store. Absent keys are never an
// error: they are simply missing from the map returned by Get.
package syncstore

// Package agent serves the sealed token to local callers over loopback HTTP.
//
// The agent owns a token vault and exposes three routes:
//
//	GET /v1/token   read the decrypted token ({"token": ""} when unset)
//	PUT /v1/token   seal and store a new token
//	GET /healthz    liveness probe
//
// Request and response bodies are never logged; token material stays out of
// the log stream entirely.
package agent

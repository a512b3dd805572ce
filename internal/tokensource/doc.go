// Package tokensource exposes a stored API token as an oauth2.TokenSource,
// so callers can plug sealbox into standard HTTP client plumbing.
//
// The source reads the token once, on the first Token call, and serves the
// same static bearer token afterwards. Construction performs no I/O.
//
//	ts, err := tokensource.NewVaultTokenSource(vault)
//	if err != nil { ... }
//	client := oauth2.NewClient(ctx, ts)
package tokensource

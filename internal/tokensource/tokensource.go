package tokensource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by Token when no token has been stored yet.
var ErrNoToken = errors.New("no token configured")

// TokenReader provides read access to a stored API token. An empty string
// with a nil error means no token is configured.
type TokenReader interface {
	GetToken(ctx context.Context) (string, error)
}

// VaultTokenSource adapts a TokenReader to oauth2.TokenSource.
// Reading is deferred to the first Token call to avoid I/O during
// application startup.
type VaultTokenSource struct {
	reader TokenReader

	token func() (*oauth2.Token, error)
}

// Compile-time check to ensure VaultTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*VaultTokenSource)(nil)

// NewVaultTokenSource creates a VaultTokenSource.
// No I/O is performed until the first Token call.
func NewVaultTokenSource(reader TokenReader) (*VaultTokenSource, error) {
	if reader == nil {
		return nil, fmt.Errorf("missing token reader")
	}

	s := &VaultTokenSource{reader: reader}

	s.token = sync.OnceValues(s.readToken)

	return s, nil
}

// readToken performs the one-time token read.
func (s *VaultTokenSource) readToken() (*oauth2.Token, error) {
	// oauth2.TokenSource.Token() has no context parameter (legacy interface limitation)
	// Use background context for the one-time read
	ctx := context.Background()

	token, err := s.reader.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stored token: %w", err)
	}
	if token == "" {
		return nil, ErrNoToken
	}

	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

// Token returns the stored API token as a static bearer token.
func (s *VaultTokenSource) Token() (*oauth2.Token, error) {
	return s.token()
}

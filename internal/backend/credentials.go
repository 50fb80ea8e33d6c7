package backend

import (
	"context"
	"strings"
)

// Credentials supplies the bearer token for backend calls. An empty token
// means no credential is available.
type Credentials interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token.
type StaticToken string

// Token returns the trimmed token.
func (t StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(t)), nil
}

// CredentialsFunc adapts a function to Credentials.
type CredentialsFunc func(ctx context.Context) (string, error)

// Token calls f.
func (f CredentialsFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

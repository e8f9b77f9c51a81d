package ports

import "context"

// VerifiedToken is what the identity provider vouches for.
type VerifiedToken struct {
	UID   string
	Email string
}

// TokenVerifier checks a bearer token with the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*VerifiedToken, error)
}

package domain

import "context"

// Principal is the authenticated caller of a request.
type Principal struct {
	UID   string
	Email string
	Role  Role
}

// IsService reports whether the principal is an API-key caller.
func (p Principal) IsService() bool { return p.Role == RoleService }

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

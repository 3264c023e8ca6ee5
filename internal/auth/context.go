package auth

import "context"

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal attaches the resolved principal to the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal a resolution middleware attached
// upstream, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

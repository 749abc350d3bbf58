package domain

import "context"

type principalKey struct{}

// WithPrincipal stores the resolved account in the context.
func WithPrincipal(ctx context.Context, a *Account) context.Context {
	return context.WithValue(ctx, principalKey{}, a)
}

// PrincipalFromContext extracts the resolved account from the context.
func PrincipalFromContext(ctx context.Context) (*Account, bool) {
	a, ok := ctx.Value(principalKey{}).(*Account)
	return a, ok && a != nil
}

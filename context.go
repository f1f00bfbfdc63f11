package dependo

import "context"

type registryCtxKey struct{}

// WithRegistry returns a new context carrying r.
// Useful to hand an isolated registry to code that resolves through a context,
// typically in tests.
//
// Example:
//
//	r := dependo.New()
//	ctx := dependo.WithRegistry(context.Background(), r)
//	svc, err := dependo.ResolveCtx(ctx, serviceToken)
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, registryCtxKey{}, r)
}

// FromContext retrieves the registry from the context.
// Returns the default registry if none is attached.
func FromContext(ctx context.Context) *Registry {
	if r, ok := ctx.Value(registryCtxKey{}).(*Registry); ok && r != nil {
		return r
	}
	return Default()
}

// ResolveCtx resolves token from the registry in context.
func ResolveCtx[T any](ctx context.Context, token *Token[T]) (T, error) {
	return Resolve(token, FromContext(ctx))
}

// MustResolveCtx is ResolveCtx that panics on error.
func MustResolveCtx[T any](ctx context.Context, token *Token[T]) T {
	return MustResolve(token, FromContext(ctx))
}

// FindCtx resolves token from the registry in context, returns false if it
// cannot be resolved.
func FindCtx[T any](ctx context.Context, token *Token[T]) (T, bool) {
	return Find(token, FromContext(ctx))
}

// RegisterCtx records a strategy in the registry in context.
func RegisterCtx(ctx context.Context, token Key, s Strategy, singleton bool) error {
	return FromContext(ctx).Register(token, s, singleton)
}

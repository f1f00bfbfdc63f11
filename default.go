package dependo

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Dispose resets its contents; the instance itself is never replaced.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

func pick(registries []*Registry) *Registry {
	if len(registries) > 0 && registries[0] != nil {
		return registries[0]
	}
	return Default()
}

// Register records a strategy in the specified registry (or the default).
func Register(token Key, s Strategy, singleton bool, registries ...*Registry) error {
	return pick(registries).Register(token, s, singleton)
}

// RegisterEager evaluates s now and caches the result in the specified
// registry (or the default).
func RegisterEager(token Key, s Strategy, registries ...*Registry) error {
	return pick(registries).RegisterEager(token, s)
}

// Resolve retrieves a typed value by token from the specified registry
// (or the default).
func Resolve[T any](token *Token[T], registries ...*Registry) (T, error) {
	var zero T

	key, ok := keyOf(token)
	if !ok {
		return zero, errMisuse("", "resolve: nil token")
	}

	v, err := pick(registries).resolveKey(key)
	if err != nil {
		return zero, err
	}

	return assertTo[T](key, v)
}

// MustResolve is Resolve that panics on error.
func MustResolve[T any](token *Token[T], registries ...*Registry) T {
	v, err := Resolve(token, registries...)
	if err != nil {
		panic(err)
	}
	return v
}

// Get resolves token from r. It is Resolve with the registry up front.
func Get[T any](r *Registry, token *Token[T]) (T, error) {
	if r == nil {
		var zero T
		return zero, errMisuse("", "get: nil registry")
	}
	return Resolve(token, r)
}

// MustGet is Get that panics on error.
func MustGet[T any](r *Registry, token *Token[T]) T {
	v, err := Get(r, token)
	if err != nil {
		panic(err)
	}
	return v
}

// Find resolves token, returns false if it cannot be resolved.
func Find[T any](token *Token[T], registries ...*Registry) (T, bool) {
	v, err := Resolve(token, registries...)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Dispose clears the specified registry (or the default).
func Dispose(registries ...*Registry) {
	pick(registries).Dispose()
}

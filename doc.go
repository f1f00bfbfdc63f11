// Package dependo is a small token-based dependency-injection registry.
//
// A Registry maps tokens to strategies: Class constructs a new *T, Factory
// invokes a function, Value passes a literal through. Resolve evaluates the
// most recently registered strategy for a token and, when the registration is
// a singleton, caches the result until Dispose. Once cached, a token keeps
// resolving to that value even if new strategies are registered for it.
//
// Injectable registers a struct type under its derived token, and Lazy fields
// inside such structs resolve their token on first read:
//
//	type Mailer struct {
//	    Config dependo.Lazy[*Config]
//	    From   dependo.Lazy[string] `inject:"mail.from"`
//	}
//
// Factories are evaluated lazily, at resolution time. RegisterEager evaluates
// at registration time instead and caches the result, which is the behavior
// some callers expect for values produced by side-effecting factories.
//
// Re-registering a token stacks by default. New(WithPolicy(Strict)) rejects
// it with ErrDuplicateToken.
//
// Cyclic resolution through factories is not detected: a singleton factory
// that resolves its own token blocks forever.
package dependo

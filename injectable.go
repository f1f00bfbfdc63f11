package dependo

import "reflect"

type injectableConfig struct {
	singleton bool
	registry  *Registry
}

type InjectableOption func(*injectableConfig)

// AsSingleton caches the first constructed instance.
func AsSingleton() InjectableOption {
	return func(c *injectableConfig) {
		c.singleton = true
	}
}

// Into registers into r instead of the default registry.
func Into(r *Registry) InjectableOption {
	return func(c *injectableConfig) {
		c.registry = r
	}
}

// Injectable registers struct type T under NewToken[*T]() with a Class
// strategy. Resolving the token yields a fresh *T (or the cached one with
// AsSingleton) whose Lazy fields are bound to the registry.
//
// T must be a struct; an inject tag on anything but an exported Lazy field is
// rejected with ErrMisuse.
//
// Example:
//
//	type Mailer struct {
//	    Config dependo.Lazy[*Config]
//	}
//
//	func init() {
//	    dependo.MustInjectable[Mailer](dependo.AsSingleton())
//	}
func Injectable[T any](opts ...InjectableOption) error {
	cfg := &injectableConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	token := NewToken[*T]()

	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return errMisuse(token.key, "injectable: %s is not a struct type", typ)
	}

	s := Class[T]().(*classStrategy[T])
	if s.plan.err != nil {
		return s.plan.err
	}

	return pick([]*Registry{cfg.registry}).Register(token, s, cfg.singleton)
}

// MustInjectable is Injectable that panics on error, for use in init.
func MustInjectable[T any](opts ...InjectableOption) {
	if err := Injectable[T](opts...); err != nil {
		panic(err)
	}
}

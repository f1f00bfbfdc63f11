package dependo

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/a-happy-team/dependo/internal/logger"
)

// Registry maps tokens to strategies and caches singleton results.
type Registry struct {
	mu         sync.Mutex
	pending    map[string]*entry
	resolved   map[string]any
	inflight   map[string]*call
	generation uint64
	policy     Policy
	log        zerolog.Logger
}

// RegistrationInfo describes one registered token for introspection.
type RegistrationInfo struct {
	Key       string
	Kind      Kind // kind of the strategy the next resolution would use
	Singleton bool
	Depth     int // number of stacked strategies
	Cached    bool
}

// New creates an isolated registry.
//
// Example:
//
//	r := dependo.New(dependo.WithPolicy(dependo.Strict))
//	r.Register(configToken, dependo.Value(&Config{}), false)
func New(opts ...Option) *Registry {
	r := &Registry{
		pending:  make(map[string]*entry),
		resolved: make(map[string]any),
		inflight: make(map[string]*call),
		policy:   Stacking,
		log:      logger.Component("dependo"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Policy reports the registry's re-registration policy.
func (r *Registry) Policy() Policy {
	return r.policy
}

// Register records s for token. Nothing is constructed or invoked.
// Under Stacking a repeated token shadows its previous strategies; under
// Strict it fails with ErrDuplicateToken.
func (r *Registry) Register(token Key, s Strategy, singleton bool) error {
	key, ok := keyOf(token)
	if !ok {
		return errMisuse("", "register: nil token")
	}
	if s == nil {
		return errMisuse(key, "register: nil strategy")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registerLocked(key, s, singleton)
}

func (r *Registry) registerLocked(key string, s Strategy, singleton bool) error {
	e, exists := r.pending[key]
	if exists && r.policy == Strict {
		return errDuplicateToken(key)
	}

	if !exists {
		e = &entry{}
		r.pending[key] = e
	} else {
		r.log.Debug().
			Str(logger.FieldToken, key).
			Int("depth", len(e.strategies)+1).
			Msg("registration shadows an earlier strategy")
	}

	e.push(s, singleton)

	r.log.Debug().
		Str(logger.FieldToken, key).
		Stringer(logger.FieldKind, s.Kind()).
		Bool("singleton", singleton).
		Msg("registered")

	return nil
}

// RegisterEager evaluates s right away and caches the result, so later
// resolutions never evaluate it again. Evaluation errors are returned as-is
// and leave the registry unchanged. If the token already has a cached value
// that value is kept.
func (r *Registry) RegisterEager(token Key, s Strategy) error {
	key, ok := keyOf(token)
	if !ok {
		return errMisuse("", "register: nil token")
	}
	if s == nil {
		return errMisuse(key, "register: nil strategy")
	}

	r.mu.Lock()
	if _, exists := r.pending[key]; exists && r.policy == Strict {
		r.mu.Unlock()
		return errDuplicateToken(key)
	}
	r.mu.Unlock()

	v, err := s.evaluate(r)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.registerLocked(key, s, true); err != nil {
		return err
	}

	if _, cached := r.resolved[key]; cached {
		r.log.Warn().Str(logger.FieldToken, key).Msg("eager value discarded, token already cached")
		return nil
	}
	r.resolved[key] = v

	return nil
}

// Resolve returns the cached value for token if there is one, otherwise
// evaluates the most recently registered strategy, caching the result when
// the entry is a singleton. Strategy errors are returned unwrapped.
func (r *Registry) Resolve(token Key) (any, error) {
	key, ok := keyOf(token)
	if !ok {
		return nil, errMisuse("", "resolve: nil token")
	}
	return r.resolveKey(key)
}

func (r *Registry) resolveKey(key string) (any, error) {
	for {
		r.mu.Lock()

		if v, ok := r.resolved[key]; ok {
			r.mu.Unlock()
			return v, nil
		}

		e, ok := r.pending[key]
		if !ok {
			r.mu.Unlock()
			return nil, errUnregisteredToken(key)
		}

		s := e.head()

		if !e.singleton {
			r.mu.Unlock()
			r.log.Debug().Str(logger.FieldToken, key).Stringer(logger.FieldKind, s.Kind()).Msg("resolving")
			return s.evaluate(r)
		}

		if c, ok := r.inflight[key]; ok {
			r.mu.Unlock()
			<-c.done
			if c.abandoned {
				continue
			}
			return c.value, c.err
		}

		c := &call{done: make(chan struct{})}
		r.inflight[key] = c
		gen := r.generation
		r.mu.Unlock()

		r.log.Debug().Str(logger.FieldToken, key).Stringer(logger.FieldKind, s.Kind()).Msg("resolving singleton")
		return r.evaluateSingleton(key, gen, s, c)
	}
}

// evaluateSingleton runs s outside the lock so the strategy may resolve other
// tokens, then publishes the result unless the registry was disposed
// meanwhile.
func (r *Registry) evaluateSingleton(key string, gen uint64, s Strategy, c *call) (any, error) {
	completed := false
	defer func() {
		if completed {
			return
		}
		// s panicked: release waiters and let them retry.
		r.mu.Lock()
		if r.inflight[key] == c {
			delete(r.inflight, key)
		}
		r.mu.Unlock()
		c.abandoned = true
		close(c.done)
	}()

	v, err := s.evaluate(r)
	completed = true

	r.mu.Lock()
	if r.inflight[key] == c {
		delete(r.inflight, key)
	}
	if err == nil && r.generation == gen {
		if cached, ok := r.resolved[key]; ok {
			v = cached
		} else {
			r.resolved[key] = v
		}
	}
	r.mu.Unlock()

	c.value, c.err = v, err
	close(c.done)

	return v, err
}

// Has reports whether Resolve would find a cached value or a strategy.
func (r *Registry) Has(token Key) bool {
	key, ok := keyOf(token)
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.resolved[key]; ok {
		return true
	}
	_, ok = r.pending[key]
	return ok
}

// Registrations lists registered tokens sorted by key.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]RegistrationInfo, 0, len(r.pending))
	for key, e := range r.pending {
		_, cached := r.resolved[key]
		result = append(result, RegistrationInfo{
			Key:       key,
			Kind:      e.head().Kind(),
			Singleton: e.singleton,
			Depth:     len(e.strategies),
			Cached:    cached,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Dispose drops every registration and cached value. The registry stays
// usable and behaves as if freshly created.
func (r *Registry) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = make(map[string]*entry)
	r.resolved = make(map[string]any)
	r.inflight = make(map[string]*call)
	r.generation++

	r.log.Debug().Uint64("generation", r.generation).Msg("disposed")
}

package dependo

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Policy decides what Register does with a token that already has an entry.
type Policy int

const (
	// Stacking prepends the new strategy; the most recent one wins.
	Stacking Policy = iota
	// Strict rejects the registration with ErrDuplicateToken.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Stacking:
		return "stacking"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

type Option func(*Registry)

func WithPolicy(p Policy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}

// WithLogger replaces the registry's diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

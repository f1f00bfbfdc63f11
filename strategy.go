package dependo

import (
	"fmt"
	"reflect"
)

// Kind tags how a strategy produces its value.
type Kind int

const (
	KindClass Kind = iota
	KindFactory
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFactory:
		return "factory"
	case KindValue:
		return "value"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Strategy is the recorded means of producing a value for a token.
// Build one with Class, Factory, FactoryE or Value.
type Strategy interface {
	Kind() Kind
	evaluate(r *Registry) (any, error)
}

type classStrategy[T any] struct {
	plan  *slotPlan
	inits []func(*T)
}

// Class constructs a fresh *T on every evaluation. Lazy slots declared on T
// are bound to the resolving registry before the init hooks run.
func Class[T any](hooks ...func(*T)) Strategy {
	return &classStrategy[T]{
		plan:  planFor(reflect.TypeOf((*T)(nil)).Elem()),
		inits: hooks,
	}
}

func (s *classStrategy[T]) Kind() Kind { return KindClass }

func (s *classStrategy[T]) evaluate(r *Registry) (any, error) {
	if s.plan.err != nil {
		return nil, s.plan.err
	}

	instance := new(T)
	s.plan.bind(reflect.ValueOf(instance).Elem(), r)

	for _, hook := range s.inits {
		hook(instance)
	}

	return instance, nil
}

type factoryStrategy struct {
	fn func() (any, error)
}

// Factory invokes fn on every evaluation.
func Factory[T any](fn func() T) Strategy {
	return &factoryStrategy{
		fn: func() (any, error) {
			return fn(), nil
		},
	}
}

// FactoryE is Factory for constructors that can fail. The error reaches the
// caller of Resolve unchanged.
func FactoryE[T any](fn func() (T, error)) Strategy {
	return &factoryStrategy{
		fn: func() (any, error) {
			v, err := fn()
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

func (s *factoryStrategy) Kind() Kind { return KindFactory }

func (s *factoryStrategy) evaluate(*Registry) (any, error) {
	return s.fn()
}

type valueStrategy struct {
	value any
}

// Value returns v as-is on every evaluation.
func Value(v any) Strategy {
	return &valueStrategy{value: v}
}

func (s *valueStrategy) Kind() Kind { return KindValue }

func (s *valueStrategy) evaluate(*Registry) (any, error) {
	return s.value, nil
}

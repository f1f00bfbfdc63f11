package dependo

import (
	"fmt"
	"reflect"
	"sync"
)

// InjectTag overrides the token key of a lazy slot field.
const InjectTag = "inject"

// Lazy is a field whose value is resolved from the registry on first read.
//
// Declared inside a struct built by a Class strategy it is bound
// automatically:
//
//	type Greeter struct {
//	    Repo     dependo.Lazy[*Repository]
//	    Greeting dependo.Lazy[string] `inject:"greeting"`
//	}
//
// The value is memoized per instance once resolution succeeds.
//
// Without a tag the key derives from T with any pointer stripped, so
// Lazy[Clock] and Lazy[*Clock] address the same token. Class and Injectable
// produce *Clock, hence a slot for an injectable struct must be declared as
// Lazy[*Clock]; Lazy[Clock] fails with ErrTypeMismatch on Get.
//
// Slots promoted from structs embedded by value are bound too. Embedding a
// slot-holding struct by pointer is rejected with ErrMisuse.
type Lazy[T any] struct {
	mu       sync.Mutex
	key      string
	registry *Registry
	resolved bool
	value    T
}

// NewLazy returns a slot bound to token in the given registry (or the default).
func NewLazy[T any](token *Token[T], registries ...*Registry) *Lazy[T] {
	r := pick(registries)
	l := &Lazy[T]{}
	if key, ok := keyOf(token); ok {
		l.bind(key, r)
	}
	return l
}

// Get resolves the slot on first call and returns the memoized value after.
func (l *Lazy[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.value, nil
	}

	var zero T
	if l.registry == nil {
		return zero, errMisuse(l.key, "lazy slot is not bound to a registry")
	}

	v, err := l.registry.resolveKey(l.key)
	if err != nil {
		return zero, err
	}

	typed, err := assertTo[T](l.key, v)
	if err != nil {
		return zero, err
	}

	l.value = typed
	l.resolved = true

	return typed, nil
}

// MustGet is Get that panics on error.
func (l *Lazy[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Key returns the token key the slot resolves.
func (l *Lazy[T]) Key() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key
}

func (l *Lazy[T]) bind(key string, r *Registry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.key = key
	l.registry = r
	l.resolved = false

	var zero T
	l.value = zero
}

func (l *Lazy[T]) defaultKey() string {
	return typeKey(reflect.TypeOf((*T)(nil)).Elem())
}

type slot interface {
	bind(key string, r *Registry)
	defaultKey() string
}

var slotType = reflect.TypeOf((*slot)(nil)).Elem()

type slotField struct {
	index []int
	key   string
}

// slotPlan lists the lazy slots of a struct type, computed once per strategy.
// Slots promoted from embedded structs are included.
type slotPlan struct {
	fields []slotField
	err    error
}

func planFor(typ reflect.Type) *slotPlan {
	plan := &slotPlan{}
	if typ.Kind() != reflect.Struct {
		return plan
	}

	plan.err = plan.collect(typ, typ, nil)
	return plan
}

func (p *slotPlan) collect(root, typ reflect.Type, path []int) error {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		index := append(append([]int(nil), path...), i)
		tag, tagged := field.Tag.Lookup(InjectTag)
		isSlot := reflect.PointerTo(field.Type).Implements(slotType)

		if !isSlot {
			if tagged {
				return errMisuse(
					tag,
					"field %s.%s has an %q tag but is %s, not a lazy slot",
					root.Name(), field.Name, InjectTag, field.Type,
				)
			}
			if !field.Anonymous {
				continue
			}

			switch {
			case field.Type.Kind() == reflect.Struct:
				if err := p.collect(root, field.Type, index); err != nil {
					return err
				}
			case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct:
				// new(T) leaves embedded pointers nil, their slots could never be bound.
				if holdsSlots(field.Type.Elem(), map[reflect.Type]bool{}) {
					return errMisuse(
						"",
						"embedded %s in %s holds lazy slots; embed it by value",
						field.Type, root.Name(),
					)
				}
			}
			continue
		}

		if !field.IsExported() {
			return errMisuse(
				tag,
				"lazy slot %s.%s must be exported",
				root.Name(), field.Name,
			)
		}

		key := tag
		if key == "" {
			key = reflect.New(field.Type).Interface().(slot).defaultKey()
		}

		p.fields = append(p.fields, slotField{index: index, key: key})
	}

	return nil
}

func holdsSlots(typ reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[typ] {
		return false
	}
	seen[typ] = true

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if reflect.PointerTo(field.Type).Implements(slotType) {
			return true
		}
		if !field.Anonymous {
			continue
		}
		inner := field.Type
		if inner.Kind() == reflect.Ptr {
			inner = inner.Elem()
		}
		if inner.Kind() == reflect.Struct && holdsSlots(inner, seen) {
			return true
		}
	}

	return false
}

func (p *slotPlan) bind(v reflect.Value, r *Registry) {
	for _, f := range p.fields {
		v.FieldByIndex(f.index).Addr().Interface().(slot).bind(f.key, r)
	}
}

func assertTo[T any](key string, v any) (T, error) {
	if typed, ok := v.(T); ok {
		return typed, nil
	}

	var zero T
	// nil resolves to the zero value of T.
	if v == nil {
		return zero, nil
	}

	return zero, errTypeMismatch(key, fmt.Sprint(reflect.TypeOf((*T)(nil)).Elem()), v)
}

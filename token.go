package dependo

import "reflect"

// Key is accepted by the untyped registry API. Only *Token[T] implements it.
type Key interface {
	tokenKey() string
}

type Token[T any] struct {
	key string
}

// NewToken creates a typed token.
// With a name the token is that string; otherwise its key is derived from T,
// so NewToken[*Service]() and NewToken[Service]() address the same entry.
func NewToken[T any](name ...string) *Token[T] {
	if len(name) > 0 && name[0] != "" {
		return &Token[T]{key: name[0]}
	}
	return &Token[T]{key: typeKey(reflect.TypeOf((*T)(nil)).Elem())}
}

func (t *Token[T]) String() string {
	return t.key
}

func (t *Token[T]) tokenKey() string {
	return t.key
}

func typeKey(typ reflect.Type) string {
	// For pointer types, use the underlying type name
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	key := typ.PkgPath() + "." + typ.Name()

	// Fallback for anonymous types
	if key == "." {
		key = typ.String()
	}

	return key
}

func keyOf(token Key) (string, bool) {
	if token == nil {
		return "", false
	}
	if v := reflect.ValueOf(token); v.Kind() == reflect.Ptr && v.IsNil() {
		return "", false
	}
	return token.tokenKey(), true
}

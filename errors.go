package dependo

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint8

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeDuplicateToken
	ErrCodeUnregisteredToken
	ErrCodeMisuse
	ErrCodeTypeMismatch
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:           "UNKNOWN",
	ErrCodeDuplicateToken:    "DUPLICATE_TOKEN",
	ErrCodeUnregisteredToken: "UNREGISTERED_TOKEN",
	ErrCodeMisuse:            "MISUSE",
	ErrCodeTypeMismatch:      "TYPE_MISMATCH",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is returned by the registry and the annotation adapters.
// Errors raised by constructors and factories are never wrapped in it.
type Error struct {
	Code    ErrorCode
	Token   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Token != "" {
		b.WriteString(fmt.Sprintf(" token=%q:", e.Token))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrDuplicateToken    = &Error{Code: ErrCodeDuplicateToken, Message: "token already registered"}
	ErrUnregisteredToken = &Error{Code: ErrCodeUnregisteredToken, Message: "token not registered"}
	ErrMisuse            = &Error{Code: ErrCodeMisuse, Message: "misuse"}
	ErrTypeMismatch      = &Error{Code: ErrCodeTypeMismatch, Message: "type mismatch"}
)

func errDuplicateToken(key string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateToken,
		Token:   key,
		Message: "token is already registered",
	}
}

func errUnregisteredToken(key string) *Error {
	return &Error{
		Code:    ErrCodeUnregisteredToken,
		Token:   key,
		Message: "no strategy registered and no cached value",
	}
}

func errMisuse(key, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeMisuse,
		Token:   key,
		Message: fmt.Sprintf(format, args...),
	}
}

func errTypeMismatch(key string, want string, got any) *Error {
	return &Error{
		Code:    ErrCodeTypeMismatch,
		Token:   key,
		Message: fmt.Sprintf("resolved %T, want %s", got, want),
	}
}

// GetErrorCode returns the code of the first *Error in err's chain.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeUnknown
}

func IsUnregistered(err error) bool {
	return errors.Is(err, ErrUnregisteredToken)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateToken)
}

func IsMisuse(err error) bool {
	return errors.Is(err, ErrMisuse)
}

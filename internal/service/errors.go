package service

import (
	"errors"
	"strings"

	"github.com/pageza/foodgram/backend/internal/validation"
)

// ErrorKind classifies failures returned by services
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is an expected, client-facing failure. Validation errors carry
// per-field messages and kinds keyed by the JSON field name.
type Error struct {
	Kind       ErrorKind
	Message    string
	Fields     map[string][]string
	FieldKinds map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, " "))
	}
	return strings.Join(parts, "; ")
}

const (
	msgNotFound        = "Страница не найдена."
	msgRecipeNotFound  = "Рецепт не найден."
	msgUserNotFound    = "Пользователь не найден."
	msgForbidden       = "У вас недостаточно прав для выполнения данного действия."
	msgUnauthenticated = "Учетные данные не были предоставлены."
	msgValidation      = "Некорректные данные."
)

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Invalid is a validation error that is not tied to a field
func Invalid(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// fieldErrors accumulates validation failures
type fieldErrors []validation.FieldError

func (f *fieldErrors) add(field, kind, msg string) {
	*f = append(*f, validation.FieldError{Field: field, Kind: kind, Message: msg})
}

// err returns nil when nothing was collected
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	e := &Error{
		Kind:       KindValidation,
		Message:    msgValidation,
		Fields:     make(map[string][]string),
		FieldKinds: make(map[string]string),
	}
	for _, fe := range f {
		e.Fields[fe.Field] = append(e.Fields[fe.Field], fe.Message)
		if _, seen := e.FieldKinds[fe.Field]; !seen {
			e.FieldKinds[fe.Field] = fe.Kind
		}
	}
	return e
}

// IsKind reports whether err is a service *Error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

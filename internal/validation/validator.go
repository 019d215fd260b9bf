// Package validation wraps a shared go-playground validator with the
// custom rules and Russian messages used by the API.
package validation

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Kinds of field failure
const (
	KindRequired   = "required"
	KindDuplicate  = "duplicate"
	KindNotFound   = "not_found"
	KindOutOfRange = "out_of_range"
	KindInvalid    = "invalid"
)

// FieldError is one failed rule on one field. Field uses the JSON name.
type FieldError struct {
	Field   string
	Kind    string
	Message string
}

var (
	validate     *validator.Validate
	validateOnce sync.Once

	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	imagePattern    = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,(.+)$`)
)

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("not_reserved", func(fl validator.FieldLevel) bool {
			return !strings.EqualFold(fl.Field().String(), models.ReservedUsername)
		})
		_ = validate.RegisterValidation("encoded_image", func(fl validator.FieldLevel) bool {
			return IsEncodedImage(fl.Field().String())
		})
	})
	return validate
}

// IsEncodedImage reports whether s is a base64 data URI of an image
func IsEncodedImage(s string) bool {
	m := imagePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(m[1])
	return err == nil
}

// ValidateStruct checks s against its validate tags
func ValidateStruct(s interface{}) []FieldError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "non_field_errors", Kind: KindInvalid, Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Kind:    kindFor(fe.Tag()),
			Message: messageFor(fe),
		})
	}
	return out
}

func kindFor(tag string) string {
	switch tag {
	case "required":
		return KindRequired
	case "min", "max", "gte", "lte", "gt", "lt":
		return KindOutOfRange
	default:
		return KindInvalid
	}
}

func messageFor(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "Обязательное поле."
	case "email":
		return "Введите правильный адрес электронной почты."
	case "username":
		return "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
	case "not_reserved":
		return fmt.Sprintf("Использовать имя '%s' в качестве username запрещено.", models.ReservedUsername)
	case "encoded_image":
		return "Загрузите правильное изображение."
	case "max", "lte":
		if isString {
			return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов.", fe.Param())
		}
		return fmt.Sprintf("Убедитесь, что это значение меньше либо равно %s.", fe.Param())
	case "min", "gte":
		if isString {
			return fmt.Sprintf("Убедитесь, что это значение содержит не менее %s символов.", fe.Param())
		}
		return fmt.Sprintf("Убедитесь, что это значение больше либо равно %s.", fe.Param())
	default:
		return fmt.Sprintf("Некорректное значение (%s).", fe.Tag())
	}
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
)

const (
	msgPageNotFound  = "Страница не найдена."
	msgInvalidValue  = "Некорректное значение."
	msgMalformedBody = "Некорректный JSON."
)

// statusFor maps a service error kind to its HTTP status
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err. Field validation errors become {"field": ["message"]},
// other service errors {"errors": "message"}, anything else a logged 500.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := statusFor(svcErr.Kind)
	if svcErr.Kind == service.KindValidation && len(svcErr.Fields) > 0 {
		c.JSON(status, svcErr.Fields)
		return
	}
	c.JSON(status, gin.H{"errors": svcErr.Message})
}

// bindJSON decodes the request body into dst. A field of the wrong type is
// reported as {"field": ["Некорректное значение."]}; a body that is not a JSON
// object as {"errors": "Некорректный JSON."}.
func bindJSON[T any](c *gin.Context, dst *T) bool {
	err := c.ShouldBindBodyWith(dst, binding.JSON)
	if err == nil {
		return true
	}
	_ = c.Error(err)

	var body []byte
	if raw, ok := c.Get(gin.BodyBytesKey); ok {
		body, _ = raw.([]byte)
	}
	if fields := invalidFields[T](body); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, fields)
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": msgMalformedBody})
	return false
}

// invalidFields decodes each top-level key of body on its own and returns
// the keys T cannot hold
func invalidFields[T any](body []byte) map[string][]string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil
	}

	fields := make(map[string][]string)
	for key, value := range top {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			continue
		}
		var dst T
		if err := json.Unmarshal(single, &dst); err != nil {
			fields[key] = []string{msgInvalidValue}
		}
	}
	return fields
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"errors": msgPageNotFound})
}

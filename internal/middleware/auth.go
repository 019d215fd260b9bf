package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	callerKey = "caller"

	msgNoCredentials = "Учетные данные не были предоставлены."
	msgBadToken      = "Недопустимый токен."
)

// TokenValidator verifies a token and returns the claims of a user that still exists
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

var errBadScheme = errors.New("unsupported authorization scheme")

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": msgNoCredentials})
			return
		}
		if err := authenticate(c, validator, header); err != nil {
			reject(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and
// lets the request through anonymously otherwise
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if err := authenticate(c, validator, header); err != nil {
				reject(c, err)
				return
			}
		}
		c.Next()
	}
}

// authenticate accepts "Bearer <jwt>" and the "Token <jwt>" form used by the frontend
func authenticate(c *gin.Context, validator TokenValidator, header string) error {
	parts := strings.Fields(header)
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		return errBadScheme
	}

	claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		return err
	}
	c.Set(callerKey, types.CallerFromClaims(claims))
	return nil
}

// reject answers 401 for bad credentials and 500 when the caller could not be resolved
func reject(c *gin.Context, err error) {
	log := logging.Ctx(c.Request.Context())
	if errors.Is(err, errBadScheme) || errors.Is(err, types.ErrInvalidToken) {
		log.Debug().Err(err).Msg("token rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": msgBadToken})
		return
	}
	log.Error().Err(err).Msg("failed to resolve caller")
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// CallerFromContext returns the authenticated caller or nil for anonymous requests
func CallerFromContext(c *gin.Context) *types.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*types.Caller)
	return caller
}

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	svc    Services
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, PageSize: 6}
	svc := NewServices(db, cfg)
	svc.Users = service.NewUserService(db).WithHashCost(bcrypt.MinCost)

	router := gin.New()
	router.Use(middleware.Recovery())
	SetupAPI(router, svc, cfg, nil)

	return &testAPI{t: t, router: router, db: db, svc: svc}
}

// tokenFor issues a bearer token for user
func (a *testAPI) tokenFor(user *models.User) string {
	a.t.Helper()
	token, err := a.svc.Auth.GenerateToken(&types.TokenClaims{UserID: user.ID, Username: user.Username, IsStaff: user.IsStaff})
	require.NoError(a.t, err)
	return token
}

// do sends a request with an optional JSON body and token
func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
}


//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetbook/internal/domain/user"
	"fleetbook/internal/handler/middleware"
	"fleetbook/internal/pkg/config"
	"fleetbook/internal/pkg/jwt"
	"fleetbook/internal/usecase"
	"fleetbook/tests/common/authtest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *authtest.JWTHelper) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig().JWT
	duration, err := time.ParseDuration(cfg.Duration)
	require.NoError(t, err)

	validator := usecase.NewTokenValidator(jwt.NewService(cfg.Secret, duration))
	mw := middleware.NewAuthMiddleware(validator)

	router := gin.New()
	protected := router.Group("", mw.RequireAuth())
	protected.GET("/whoami", func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": string(actor.Role)})
	})
	protected.POST("/staff-only", mw.RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return router, authtest.NewJWTHelper(cfg)
}

func performWithHeader(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	router, helper := newAuthTestRouter(t)
	userID := uuid.New()

	t.Run("valid token sets the actor on the context", func(t *testing.T) {
		token := helper.GenerateToken(t, userID, user.RoleCustomer)
		w := performWithHeader(router, http.MethodGet, "/whoami", "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "customer")
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		w := performWithHeader(router, http.MethodGet, "/whoami", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer header is rejected", func(t *testing.T) {
		w := performWithHeader(router, http.MethodGet, "/whoami", "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := helper.CreateExpiredToken(t, userID, user.RoleCustomer)
		w := performWithHeader(router, http.MethodGet, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := authtest.NewJWTHelper(config.JWTConfig{Secret: "other-secret", Duration: "24h"})
		token := other.GenerateToken(t, userID, user.RoleCustomer)
		w := performWithHeader(router, http.MethodGet, "/whoami", "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	router, helper := newAuthTestRouter(t)

	t.Run("staff and admin pass", func(t *testing.T) {
		for _, role := range []user.Role{user.RoleStaff, user.RoleAdmin} {
			token := helper.GenerateToken(t, uuid.New(), role)
			w := performWithHeader(router, http.MethodPost, "/staff-only", "Bearer "+token)
			assert.Equal(t, http.StatusNoContent, w.Code, string(role))
		}
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		token := helper.GenerateToken(t, uuid.New(), user.RoleCustomer)
		w := performWithHeader(router, http.MethodPost, "/staff-only", "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

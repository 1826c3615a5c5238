package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"complaint-portal/auth-service/internal/models"
	"complaint-portal/shared/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubValidator map[string]*token.Claims

func (s stubValidator) Validate(_ context.Context, tokenString string) (*token.Claims, error) {
	if tokenString == "broken" {
		return nil, errors.New("redis down")
	}
	claims, ok := s[tokenString]
	if !ok {
		return nil, fmt.Errorf("%w: invalid or expired token", models.ErrUnauthorized)
	}
	return claims, nil
}

func newRouter(v TokenValidator, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(v), RequireRoles(roles...), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, c.GetString(ContextUserID)+"/"+claims.Role)
	})
	return r
}

func get(r *gin.Engine, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAndRoles(t *testing.T) {
	v := stubValidator{
		"admin-token":   {UserID: "a1", Role: "admin"},
		"citizen-token": {UserID: "c1", Role: "citizen"},
	}
	r := newRouter(v, models.RoleAdmin)

	w := get(r, "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1/admin", w.Body.String())

	assert.Equal(t, http.StatusForbidden, get(r, "citizen-token").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "forged").Code)
	assert.Equal(t, http.StatusInternalServerError, get(r, "broken").Code)

	multi := newRouter(v, models.RoleAdmin, models.RoleCitizen)
	assert.Equal(t, http.StatusOK, get(multi, "citizen-token").Code)
}

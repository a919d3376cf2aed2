package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentitube/infrastructure/configuration"
	"sentitube/infrastructure/utils"
	"sentitube/interfaces/middleware"
)

const authTestSecret = "auth-test-secret"

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	previous := configuration.C.App.SecretKey
	configuration.C.App.SecretKey = authTestSecret
	t.Cleanup(func() { configuration.C.App.SecretKey = previous })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("api")
	api.Use(middleware.Auth())
	api.GET("/whoami", func(ctx *gin.Context) {
		userID, ok := middleware.UserID(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})
	return router
}

func mintToken(t *testing.T, subject, secret string) string {
	t.Helper()
	token, err := utils.GenerateToken(map[string]interface{}{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}, secret)
	require.NoError(t, err)
	return token
}

func TestAuth_ValidTokenSetsUserID(t *testing.T) {
	router := newAuthRouter(t)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID.String(), authTestSecret))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestAuth_Rejections(t *testing.T) {
	router := newAuthRouter(t)
	userID := uuid.New()

	expired, err := utils.GenerateToken(map[string]interface{}{
		"sub": userID.String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}, authTestSecret)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic abcdef"},
		{"malformed token", "Bearer not.a.token"},
		{"wrong signing key", "Bearer " + mintToken(t, userID.String(), "some-other-secret")},
		{"subject is not a uuid", "Bearer " + mintToken(t, "not-a-uuid", authTestSecret)},
		{"expired token", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

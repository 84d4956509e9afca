package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "clave-acceso-bodega-32-caracteres",
		RefreshSecret:          "clave-refresco-bodega-32-chars!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "wms-backend",
		MaxRefreshCount:        10,
	})
}

func issueTokens(t *testing.T, svc *auth.JWTService) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "almacenista",
		Role:     "operator",
	}
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func serveProtected(handler gin.HandlerFunc, authValue string, middlewares ...gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(middlewares...)
	router.GET("/api/v1/inventory", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	if authValue != "" {
		req.Header.Set(AuthHeaderKey, authValue)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := testJWTService()
	pair, input := issueTokens(t, svc)

	w := serveProtected(func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, "operator", claims.Role)
		okHandler(c)
	}, "Bearer "+pair.AccessToken, JWTAuthMiddleware(svc))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	svc := testJWTService()

	expiredSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "clave-acceso-bodega-32-caracteres",
		AccessTokenExpiration:  -time.Hour,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "wms-backend",
	})
	expiredPair, _ := issueTokens(t, expiredSvc)
	pair, _ := issueTokens(t, svc)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer no-es-un-token"},
		{"expired token", "Bearer " + expiredPair.AccessToken},
		{"refresh token used as access", "Bearer " + pair.RefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveProtected(okHandler, tt.authHeader, JWTAuthMiddleware(svc))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	svc := testJWTService()

	t.Run("default skip list lets health and auth endpoints through", func(t *testing.T) {
		router := gin.New()
		router.Use(JWTAuthMiddleware(svc))

		open := []string{"/health", "/healthz", "/ready", "/api/v1/health",
			"/api/v1/auth/login", "/api/v1/auth/refresh"}
		for _, path := range open {
			router.GET(path, okHandler)
		}

		for _, path := range open {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "path %s should not need auth", path)
		}
	})

	t.Run("custom exact path", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.SkipPaths = append(cfg.SkipPaths, "/api/v1/inventory")

		w := serveProtected(okHandler, "", JWTAuthMiddlewareWithConfig(cfg))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("prefix match", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.SkipPathPrefixes = append(cfg.SkipPathPrefixes, "/api/v1/inv")

		w := serveProtected(okHandler, "", JWTAuthMiddlewareWithConfig(cfg))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddleware_ContextValues(t *testing.T) {
	svc := testJWTService()
	pair, input := issueTokens(t, svc)

	var gotUserID, gotUsername, gotRole string
	w := serveProtected(func(c *gin.Context) {
		gotUserID = GetJWTUserID(c)
		gotUsername = GetJWTUsername(c)
		gotRole = GetJWTRole(c)
		okHandler(c)
	}, "Bearer "+pair.AccessToken, JWTAuthMiddleware(svc))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, input.UserID.String(), gotUserID)
	assert.Equal(t, "almacenista", gotUsername)
	assert.Equal(t, "operator", gotRole)
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := testJWTService()
	ctx := context.Background()

	t.Run("revoked token is rejected", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		pair, _ := issueTokens(t, svc)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(ctx, claims.ID, time.Hour))

		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = blacklist

		w := serveProtected(okHandler, "Bearer "+pair.AccessToken, JWTAuthMiddlewareWithConfig(cfg))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("force logout invalidates older sessions", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		pair, input := issueTokens(t, svc)

		require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), time.Hour))

		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = blacklist

		w := serveProtected(okHandler, "Bearer "+pair.AccessToken, JWTAuthMiddlewareWithConfig(cfg))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unrevoked token passes", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
		pair, _ := issueTokens(t, svc)

		w := serveProtected(okHandler, "Bearer "+pair.AccessToken, JWTAuthMiddlewareWithConfig(cfg))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	svc := testJWTService()

	called := false
	cfg := DefaultJWTConfig(svc)
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
	}

	w := serveProtected(okHandler, "", JWTAuthMiddlewareWithConfig(cfg))

	assert.True(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestJWTContextGetters_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Empty(t, GetJWTRole(c))
}

func TestRequireRole(t *testing.T) {
	svc := testJWTService()
	pair, _ := issueTokens(t, svc) // role operator

	t.Run("matching role passes", func(t *testing.T) {
		w := serveProtected(okHandler, "Bearer "+pair.AccessToken,
			JWTAuthMiddleware(svc), RequireRole("operator", "admin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		w := serveProtected(okHandler, "Bearer "+pair.AccessToken,
			JWTAuthMiddleware(svc), RequireRole("admin"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/types"
)

func authTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			ApiKeys: []config.ApiKeyConfig{
				{Name: "governance-ops", Key: "gov-key-1", Roles: []string{"governance", "emergency"}},
				{Name: "mint-gateway", Key: "mint-key-1", Roles: []string{"minter"}},
			},
		},
	}
}

func resolveCaller(t *testing.T, apiKey string) *types.Caller {
	t.Helper()

	var captured *types.Caller
	handler := AuthMiddleware(authTestConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/custodians", nil)
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	return captured
}

func TestAuthMiddlewareResolvesKnownKey(t *testing.T) {
	caller := resolveCaller(t, "gov-key-1")
	require.NotNil(t, caller)
	assert.Equal(t, "governance-ops", caller.ID)
	assert.True(t, caller.HasRole(types.RoleGovernance))
	assert.False(t, caller.HasRole(types.RoleMinter))
}

func TestAuthMiddlewareAnonymousWithoutKey(t *testing.T) {
	assert.Nil(t, resolveCaller(t, ""))
}

func TestAuthMiddlewareAnonymousWithUnknownKey(t *testing.T) {
	assert.Nil(t, resolveCaller(t, "not-a-key"))
}

func TestCallerFromContextWithoutCaller(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, CallerFromContext(req.Context()))
}

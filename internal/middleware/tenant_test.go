package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

func defaultConfig() TenantConfig {
	return TenantConfig{
		BaseDomain:        "example.com",
		IgnoredSubdomains: []string{"www"},
		BypassPrefixes:    []string{"api", "admin"},
	}
}

func TestResolveSubdomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		host      string
		cfg       TenantConfig
		subdomain string
		outcome   Outcome
	}{
		{name: "store subdomain", host: "acme.example.com", cfg: defaultConfig(), subdomain: "acme", outcome: OutcomeSubdomain},
		{name: "port stripped", host: "acme.example.com:8000", cfg: defaultConfig(), subdomain: "acme", outcome: OutcomeSubdomain},
		{name: "trailing dot stripped", host: "acme.example.com.", cfg: defaultConfig(), subdomain: "acme", outcome: OutcomeSubdomain},
		{name: "case folded", host: "ACME.Example.COM", cfg: defaultConfig(), subdomain: "acme", outcome: OutcomeSubdomain},
		{name: "base domain is main site", host: "example.com", cfg: defaultConfig(), outcome: OutcomeNoTenant},
		{name: "www ignored", host: "www.example.com", cfg: defaultConfig(), outcome: OutcomeNoTenant},
		{name: "api bypass", host: "api.example.com", cfg: defaultConfig(), outcome: OutcomeNoTenant},
		{name: "admin bypass", host: "admin.example.com", cfg: defaultConfig(), outcome: OutcomeNoTenant},
		{name: "bypass checked before domain match", host: "api.other.com", cfg: defaultConfig(), outcome: OutcomeNoTenant},
		{name: "foreign domain rejected", host: "evil.com", cfg: defaultConfig(), outcome: OutcomeWrongDomain},
		{name: "foreign subdomain rejected", host: "acme.evil.com", cfg: defaultConfig(), outcome: OutcomeWrongDomain},
		{name: "nested subdomain kept whole", host: "a.b.example.com", cfg: defaultConfig(), subdomain: "a.b", outcome: OutcomeSubdomain},
		{name: "empty host", host: "", cfg: defaultConfig(), outcome: OutcomeNoTenant},
		{name: "heuristic three labels", host: "acme.shops.io", cfg: TenantConfig{IgnoredSubdomains: []string{"www"}}, subdomain: "acme", outcome: OutcomeSubdomain},
		{name: "heuristic two labels is no tenant", host: "shops.io", cfg: TenantConfig{}, outcome: OutcomeNoTenant},
		{name: "heuristic ignores www", host: "www.shops.io", cfg: TenantConfig{IgnoredSubdomains: []string{"www"}}, outcome: OutcomeNoTenant},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sub, outcome := ResolveSubdomain(tt.host, tt.cfg)
			assert.Equal(t, tt.outcome, outcome)
			assert.Equal(t, tt.subdomain, sub)
		})
	}
}

// fakeStoreLookup serves a fixed subdomain -> store table; everything else
// is record-not-found, matching the repository contract for missing,
// inactive and blocked stores.
type fakeStoreLookup struct {
	stores map[string]*models.Store
	err    error
}

func (f *fakeStoreLookup) ActiveBySubdomain(_ context.Context, subdomain string) (*models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.stores[subdomain]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTenantRouter(t *testing.T, lookup StoreLookup) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(Tenant(defaultConfig(), lookup, logger))
	r.GET("/probe", func(c *gin.Context) {
		if store, ok := CurrentStore(c); ok {
			c.JSON(http.StatusOK, gin.H{"storeId": store.ID.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"storeId": nil})
	})
	r.GET("/scoped", RequireStore(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r *gin.Engine, host string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTenantMiddleware(t *testing.T) {
	t.Parallel()

	acme := &models.Store{ID: uuid.New(), Subdomain: "acme", Name: "Acme", IsActive: true}
	lookup := &fakeStoreLookup{stores: map[string]*models.Store{"acme": acme}}

	t.Run("resolves active store", func(t *testing.T) {
		t.Parallel()

		w := doRequest(newTenantRouter(t, lookup), "acme.example.com", "/probe")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, acme.ID.String(), body["storeId"])
	})

	t.Run("resolution is repeatable", func(t *testing.T) {
		t.Parallel()

		r := newTenantRouter(t, lookup)
		first := doRequest(r, "acme.example.com", "/probe")
		second := doRequest(r, "acme.example.com", "/probe")
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("main site has no tenant", func(t *testing.T) {
		t.Parallel()

		w := doRequest(newTenantRouter(t, lookup), "example.com", "/probe")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "null")
	})

	t.Run("unknown subdomain is not found", func(t *testing.T) {
		t.Parallel()

		w := doRequest(newTenantRouter(t, lookup), "ghost.example.com", "/probe")
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.CodeNotFound, resp.Error.Code)
	})

	t.Run("wrong domain rejected before lookup", func(t *testing.T) {
		t.Parallel()

		w := doRequest(newTenantRouter(t, lookup), "evil.com", "/probe")
		require.Equal(t, http.StatusForbidden, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.CodeWrongDomain, resp.Error.Code)
	})

	t.Run("blocked store response matches unknown subdomain", func(t *testing.T) {
		t.Parallel()

		// The lookup maps blocked stores to ErrRecordNotFound, so the
		// response body must be byte-identical to the unknown case.
		r := newTenantRouter(t, lookup)
		unknown := doRequest(r, "ghost.example.com", "/probe")
		blocked := doRequest(r, "blocked.example.com", "/probe")
		assert.Equal(t, unknown.Code, blocked.Code)
		assert.Equal(t, unknown.Body.String(), blocked.Body.String())
	})

	t.Run("scoped route requires tenant", func(t *testing.T) {
		t.Parallel()

		r := newTenantRouter(t, lookup)

		w := doRequest(r, "acme.example.com", "/scoped")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(r, "example.com", "/scoped")
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, models.CodeTenantRequired, resp.Error.Code)
	})
}

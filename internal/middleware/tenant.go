package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// storeContextKey holds the resolved *models.Store in the gin context.
// Access goes through CurrentStore; handlers never read the key directly.
const storeContextKey = "current_store"

// Outcome classifies what the host header resolved to, before any store
// lookup happens.
type Outcome int

const (
	// OutcomeNoTenant: the request proceeds unscoped (main site, bypass
	// host, or an ignored label such as www).
	OutcomeNoTenant Outcome = iota
	// OutcomeSubdomain: a candidate store subdomain was extracted.
	OutcomeSubdomain
	// OutcomeWrongDomain: the host does not belong to the configured base
	// domain at all. Rejected before any tenant lookup so nothing about
	// existing tenants can leak.
	OutcomeWrongDomain
)

// TenantConfig configures host-header resolution.
type TenantConfig struct {
	// BaseDomain, e.g. "example.com". When empty a lower-confidence
	// heuristic takes the first label of any host with three or more
	// labels.
	BaseDomain string
	// IgnoredSubdomains resolve to no-tenant (default: www).
	IgnoredSubdomains []string
	// BypassPrefixes are operator-facing first labels that skip tenant
	// resolution entirely (default: api, admin).
	BypassPrefixes []string
}

// ResolveSubdomain extracts the store subdomain from a raw host header.
// Pure function of the host and config; the store lookup happens separately.
func ResolveSubdomain(host string, cfg TenantConfig) (string, Outcome) {
	host, _, _ = strings.Cut(host, ":")
	host = strings.Trim(strings.ToLower(host), ".")
	if host == "" {
		return "", OutcomeNoTenant
	}

	first, _, _ := strings.Cut(host, ".")
	for _, p := range cfg.BypassPrefixes {
		if first == p {
			return "", OutcomeNoTenant
		}
	}

	var subdomain string
	if base := strings.Trim(strings.ToLower(cfg.BaseDomain), "."); base != "" {
		switch {
		case host == base:
			return "", OutcomeNoTenant
		case strings.HasSuffix(host, "."+base):
			subdomain = host[:len(host)-len(base)-1]
		default:
			return "", OutcomeWrongDomain
		}
	} else {
		// No base domain configured: take the first label whenever the
		// host has at least three labels. Heuristic, lower confidence.
		if strings.Count(host, ".") >= 2 {
			subdomain = first
		}
	}

	if subdomain == "" {
		return "", OutcomeNoTenant
	}
	for _, ig := range cfg.IgnoredSubdomains {
		if subdomain == ig {
			return "", OutcomeNoTenant
		}
	}
	return subdomain, OutcomeSubdomain
}

// StoreLookup finds an active, unblocked store by exact subdomain match.
// Implementations return gorm.ErrRecordNotFound for missing, inactive and
// blocked stores alike.
type StoreLookup interface {
	ActiveBySubdomain(ctx context.Context, subdomain string) (*models.Store, error)
}

// Tenant resolves the request's host header to a store and attaches it to
// the context. Wrong-domain requests are rejected outright; unknown,
// disabled and blocked subdomains all produce the same not-found response
// so tenants cannot be enumerated.
func Tenant(cfg TenantConfig, stores StoreLookup, logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "middleware.tenant")

	return func(c *gin.Context) {
		subdomain, outcome := ResolveSubdomain(c.Request.Host, cfg)

		switch outcome {
		case OutcomeWrongDomain:
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    models.CodeWrongDomain,
					Message: "Host does not belong to this platform",
				},
			})
			return

		case OutcomeNoTenant:
			c.Next()
			return
		}

		store, err := stores.ActiveBySubdomain(c.Request.Context(), subdomain)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
					Success: false,
					Error: models.Error{
						Code:    models.CodeNotFound,
						Message: "Store not found",
					},
				})
				return
			}
			log.WithError(err).WithField("subdomain", subdomain).Error("store lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    models.CodeInternalError,
					Message: "Failed to resolve store",
				},
			})
			return
		}

		c.Set(storeContextKey, store)
		c.Next()
	}
}

// CurrentStore returns the store resolved for this request, if any.
func CurrentStore(c *gin.Context) (*models.Store, bool) {
	v, ok := c.Get(storeContextKey)
	if !ok {
		return nil, false
	}
	store, ok := v.(*models.Store)
	return store, ok
}

// RequireStore rejects requests that reached a store-scoped route without a
// resolved tenant.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentStore(c); !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    models.CodeTenantRequired,
					Message: "This endpoint is only reachable on a store subdomain",
				},
			})
			return
		}
		c.Next()
	}
}

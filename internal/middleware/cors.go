package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a CORS middleware for the storefront and admin frontends.
// Store subdomains are open by pattern since tenants are provisioned at
// runtime.
func CORS(baseDomain string) gin.HandlerFunc {
	origins := []string{
		"http://localhost:3000", // storefront dev server
		"http://localhost:4200", // admin dev server
	}
	if baseDomain != "" {
		origins = append(origins,
			"https://"+baseDomain,
			"https://*."+baseDomain,
		)
	}

	config := cors.Config{
		AllowOrigins:     origins,
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "X-User-ID", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(config)
}

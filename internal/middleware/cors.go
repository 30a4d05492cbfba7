package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS reflects allowed origins. Preflight requests end here with 204.
func CORS(origins []string) gin.HandlerFunc {
	allowed := AllowedOrigins(origins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && allowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Accept, Origin, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AllowedOrigins returns a matcher over the configured origins.
func AllowedOrigins(origins []string) func(origin string) bool {
	set := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			set[o] = true
		}
	}
	return func(origin string) bool {
		return set[strings.TrimRight(origin, "/")]
	}
}

// CheckOrigin adapts AllowedOrigins for the websocket upgrader. Requests without Origin are accepted.
func CheckOrigin(origins []string) func(r *http.Request) bool {
	allowed := AllowedOrigins(origins)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed(origin) || sameHost(origin, r.Host)
	}
}

func sameHost(origin, host string) bool {
	origin = strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	return strings.EqualFold(origin, host)
}

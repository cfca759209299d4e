package gate

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenContextKey is where the middleware stashes the session token so
// handlers can forward it to the core backend.
const TokenContextKey = "access_token"

// Middleware runs Decide on every request. skipPaths bypass the gate entirely
// (health checks etc). API routes answer 401 JSON instead of a redirect, page
// navigations get the 302 the browser expects.
func (g *Gate) Middleware(skipPaths []string) gin.HandlerFunc {
	skip := make(map[string]bool)
	for _, path := range skipPaths {
		skip[path] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}

		// Bearer header has precedence, then the session cookie
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(CookieName); err == nil {
				token = cookie
			}
		}

		switch g.Decide(path, token) {
		case RedirectToApp:
			c.Redirect(http.StatusFound, AppHome)
			c.Abort()
		case RedirectToLogin:
			if strings.HasPrefix(path, "/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
		default:
			c.Set(TokenContextKey, token)
			c.Next()
		}
	}
}

func extractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

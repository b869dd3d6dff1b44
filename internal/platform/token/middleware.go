package token

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextEmail is the gin context key holding the authenticated email.
const ContextEmail = "email"

// CookieName is the cookie the session token travels in for browser clients.
const CookieName = "jwt"

// Validator verifies a session token and returns the bound email.
type Validator interface {
	Validate(tokenStr string) (string, error)
}

// FromRequest extracts the session token from the Authorization header or,
// for browser clients, from the jwt cookie. It returns "" when neither is set.
func FromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// AuthRequired returns a Gin middleware function that validates session tokens
// and restricts access to authenticated users only. On success the bound email
// is stored in the gin context under ContextEmail.
func AuthRequired(v Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := FromRequest(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		email, err := v.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextEmail, email)
		c.Next()
	}
}

package middleware

import (
	"net/http"

	"miniblog/internal/session"

	"github.com/gin-gonic/gin"
)

const IdentityKey = "identity"

// LoadUser copies the session identity snapshot into the request
// context. No database hit: the snapshot carries the role.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ident := session.Current(c); ident != nil {
			c.Set(IdentityKey, ident)
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in. Page requests are sent to
// the login form; everything else gets a bare 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(IdentityKey); !exists {
			if c.Request.Method == http.MethodGet {
				c.Redirect(http.StatusFound, "/login")
			} else {
				c.Status(http.StatusUnauthorized)
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity LoadUser attached, or nil.
func CurrentIdentity(c *gin.Context) *session.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		return v.(*session.Identity)
	}
	return nil
}

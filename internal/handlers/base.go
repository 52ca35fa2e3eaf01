package handlers

import (
	"net/http"

	"miniblog/internal/middleware"
	"miniblog/internal/session"

	"github.com/gin-gonic/gin"
)

// Render injects the common view-model fields (identity, CSRF token,
// CSP nonce) before handing off to the template engine.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	obj["IsLoggedIn"] = false
	obj["IsAdmin"] = false
	if ident := middleware.CurrentIdentity(c); ident != nil {
		obj["IsLoggedIn"] = true
		obj["IsAdmin"] = ident.IsAdmin()
		obj["DisplayName"] = ident.Name
		obj["UserID"] = ident.UserID
	}

	obj["CSRFToken"] = session.CSRFToken(c)
	if nonce, exists := c.Get(middleware.CSPNonceKey); exists {
		obj["CSPNonce"] = nonce
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError shows the error page with a user-facing message.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// HtmxRedirect asks an HTMX client to navigate after a mutation.
func HtmxRedirect(c *gin.Context, path string) {
	c.Header("HX-Redirect", path)
	c.Status(http.StatusOK)
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"miniblog/internal/session"

	"github.com/gin-gonic/gin"
)

// csrfHeader carries the token for requests without a form body,
// e.g. the HTMX-driven DELETE on posts.
const csrfHeader = "X-CSRF-Token"

// CSRFRequired rejects state-mutating requests whose submitted token
// does not match the session's token. An anonymous session has no
// token and always fails.
func CSRFRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		want := session.CSRFToken(c)
		got := c.PostForm("csrf_token")
		if got == "" {
			got = c.GetHeader(csrfHeader)
		}

		if want == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

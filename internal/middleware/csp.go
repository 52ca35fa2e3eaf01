package middleware

import (
	"miniblog/internal/utils"

	"github.com/gin-gonic/gin"
)

const CSPNonceKey = "csp_nonce"

// CSPNonce generates a per-request script nonce and sets the
// content-security-policy header. Views read the nonce from the
// context to tag their inline scripts.
func CSPNonce() gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, err := utils.NewNonce()
		if err != nil {
			// Without a nonce no inline script may run; fail closed.
			c.Header("Content-Security-Policy", "script-src 'self'")
			c.Next()
			return
		}

		c.Set(CSPNonceKey, nonce)
		c.Header("Content-Security-Policy", "script-src 'self' 'nonce-"+nonce+"'")
		c.Next()
	}
}

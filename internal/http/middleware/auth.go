// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements AdminAuth, a shared-secret guard for administrative
// routes. Credentials are read from "Authorization: Bearer <token>" or the
// X-Admin-Token header.
//
// Responses:
//   - 403 forbidden when no admin token is configured (admin API disabled)
//   - 401 unauthorized when the credential is missing or wrong
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderAdminToken carries the admin token when a bearer header is not used.
const HeaderAdminToken = "X-Admin-Token"

// ctxKeyPrincipal holds the authenticated principal name.
const ctxKeyPrincipal = "auth.principal"

// PrincipalAdmin is the principal recorded for requests passing AdminAuth.
const PrincipalAdmin = "admin"

// readAdminToken extracts the presented credential, bearer first.
func readAdminToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(c.GetHeader(HeaderAdminToken))
}

// Principal returns the authenticated principal, or "" for anonymous
// requests.
func Principal(c *gin.Context) string {
	v, ok := c.Get(ctxKeyPrincipal)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// AdminAuth guards a route group with token. An empty token disables the
// group entirely.
func AdminAuth(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		if len(want) == 0 {
			abortAuth(c, http.StatusForbidden, "forbidden", "admin API disabled")
			return
		}
		got := readAdminToken(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			abortAuth(c, http.StatusUnauthorized, "unauthorized", "invalid admin token")
			return
		}
		c.Set(ctxKeyPrincipal, PrincipalAdmin)
		c.Next()
	}
}

// abortAuth writes the same envelope shape as handlers.Fail without importing
// the handlers package.
func abortAuth(c *gin.Context, status int, code, msg string) {
	LoggerFrom(c).Warn().Int("status", status).Str("code", code).Msg("admin auth rejected")
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// defaultHSTSMaxAge applies when HSTS is enabled without a positive max age.
const defaultHSTSMaxAge = 180 * 24 * time.Hour

// StatusPageCSP allows the inline stylesheet of the status page and nothing
// else.
const StatusPageCSP = "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'"

// statusPagePermissions disables every browser feature the page could ask
// for. The page never needs any of them.
const statusPagePermissions = "geolocation=(), microphone=(), camera=(), payment=(), usb=(), interest-cohort=()"

// SecurityOptions configures SecurityHeaders.
//
// HSTS is sent only for requests that arrived over HTTPS, directly or via a
// proxy setting X-Forwarded-Proto. Enable it only when traffic is HTTPS end to
// end.
type SecurityOptions struct {
	HSTS        bool
	HSTSMaxAge  time.Duration // defaults to 180 days
	Permissions bool          // Permissions-Policy and X-Permitted-Cross-Domain-Policies
}

// SecurityHeaders returns a Gin middleware setting baseline hardening headers
// on every response: nosniff, frame denial and no-referrer, plus the optional
// HSTS and feature policies in opt.
//
// It sets no Content-Security-Policy; HTML routes install
// ContentSecurityPolicy themselves.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10) + "; includeSubDomains"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.Permissions {
			h.Set("Permissions-Policy", statusPagePermissions)
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.HSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}

// ContentSecurityPolicy sets Content-Security-Policy to policy. Install it on
// routes that render HTML.
func ContentSecurityPolicy(policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if policy != "" {
			c.Header("Content-Security-Policy", policy)
		}
		c.Next()
	}
}

// NoStore marks responses as uncacheable. Admin routes use it so subscriber
// lists and bot details never land in a shared cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store")
		h.Set("Pragma", "no-cache")
		c.Next()
	}
}

func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

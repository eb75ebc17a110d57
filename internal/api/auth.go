package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// ──────────────────────────────────────────────────────────────────
// Bearer Token Authentication Middleware
//
// Reads SEEDFINDER_AUTH_TOKEN from environment. If set, all protected
// routes (/search, /search/stop, /analyze) require:
// Authorization: Bearer <token>
//
// Public endpoints (health, websocket stream) are excluded — a search
// is CPU-bound work, so the token gates who can spend that CPU.
//
// A second, narrower gate gives an authenticated caller one more lever
// they don't get for free: IsExhaustiveModeEnabled controls whether
// POST /search may run with neither a cutoff nor autoCutoff, i.e. an
// unbounded full-keyspace enumeration across every worker thread rather
// than a bounded top-K search.
// ──────────────────────────────────────────────────────────────────

// AuthMiddleware returns a Gin middleware that validates bearer tokens.
// If SEEDFINDER_AUTH_TOKEN is not set, all requests are allowed (dev
// mode). WARNING: in GIN_MODE=release, leaving the token unset exposes
// /search to the public internet, letting anyone burn engine CPU.
func AuthMiddleware() gin.HandlerFunc {
	token := os.Getenv("SEEDFINDER_AUTH_TOKEN")

	if token == "" && os.Getenv("GIN_MODE") == "release" {
		log.Println("[SECURITY WARNING] SEEDFINDER_AUTH_TOKEN is not set in release mode. " +
			"All protected endpoints are publicly accessible. " +
			"Set SEEDFINDER_AUTH_TOKEN in your environment to enforce authentication.")
	}

	return func(c *gin.Context) {
		// If no token is configured, skip auth (development mode)
		if token == "" {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
				"hint":  "Use: Authorization: Bearer <SEEDFINDER_AUTH_TOKEN>",
			})
			c.Abort()
			return
		}

		// Parse "Bearer <token>"
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Authorization header format"})
			c.Abort()
			return
		}

		// Use constant-time comparison to prevent timing-based token enumeration.
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// IsExhaustiveModeEnabled reports whether SEEDFINDER_ENABLE_EXHAUSTIVE=true
// is set. A search with no cutoff and no autoCutoff runs every batch in
// its range to completion regardless of score — that's the engine's
// full power, but also its most expensive mode, so it's disabled by
// default in production the same way a misconfigured token would be: an
// operator has to opt in explicitly.
func IsExhaustiveModeEnabled() bool {
	return os.Getenv("SEEDFINDER_ENABLE_EXHAUSTIVE") == "true"
}

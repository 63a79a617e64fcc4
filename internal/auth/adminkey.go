package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const isAdminKey = "is_admin"

// adminKeyMatches compares the presented key against the configured
// secret in constant time over SHA-256 digests.
func adminKeyMatches(presented, secret string) bool {
	if presented == "" || secret == "" {
		return false
	}
	a := sha256.Sum256([]byte(presented))
	b := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func presentedKey(c echo.Context) string {
	if key := c.Request().Header.Get("X-Admin-Key"); key != "" {
		return key
	}
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// DetectAdmin marks the request as administrative when a valid admin
// key is presented, and passes everyone else through unauthenticated.
// Customer-facing endpoints use this so staff get the admin shipping
// option without a separate route.
func DetectAdmin(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if adminKeyMatches(presentedKey(c), secret) {
				c.Set(isAdminKey, true)
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects requests that do not present a valid admin key.
func RequireAdmin(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !adminKeyMatches(presentedKey(c), secret) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing admin key")
			}
			c.Set(isAdminKey, true)
			return next(c)
		}
	}
}

// IsAdmin reports whether the current request was authenticated as
// administrative.
func IsAdmin(c echo.Context) bool {
	isAdmin, _ := c.Get(isAdminKey).(bool)
	return isAdmin
}

// SetAdmin marks a context as administrative. Used by tests.
func SetAdmin(c echo.Context) {
	c.Set(isAdminKey, true)
}

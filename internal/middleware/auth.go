// Package middleware provides authentication, logging, rate limiting and
// observability middleware for the Fiber app.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LoginPath is where anonymous visitors are sent when a page needs a session.
const LoginPath = "/auth/login/"

// LoadSession resolves the session cookie, if any, into c.Locals("userID").
// Anonymous requests and bad or revoked tokens pass through without a user;
// a stale cookie is cleared. If revocation cannot be checked the request is
// anonymous but the cookie is kept.
func LoadSession(m *SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(m.CookieName())
		if token == "" {
			return c.Next()
		}

		claims, err := m.Verify(c.UserContext(), token)
		if errors.Is(err, ErrRevocationUnavailable) {
			Logger.WarnContext(c.UserContext(), "session check skipped", slog.String("error", err.Error()))
			return c.Next()
		}
		if err != nil {
			m.ClearCookie(c)
			return c.Next()
		}

		c.Locals("userID", claims.UserID)
		c.Locals("session", claims)
		ctx := context.WithValue(c.UserContext(), UserIDKey, claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// LoginRequired redirects anonymous requests to the login page, carrying
// the original URL in the next parameter.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals("userID").(uint); ok {
			return c.Next()
		}
		return c.Redirect(LoginRedirectURL(c.OriginalURL()), fiber.StatusFound)
	}
}

// LoginRedirectURL builds /auth/login/?next=<target>, leaving slashes readable.
func LoginRedirectURL(target string) string {
	next := strings.ReplaceAll(url.QueryEscape(target), "%2F", "/")
	return LoginPath + "?next=" + next
}

// SafeNext returns target if it is a local absolute path, otherwise fallback.
func SafeNext(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return target
}

// CurrentUserID returns the authenticated user ID, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok
}

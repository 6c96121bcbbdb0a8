package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionIssuer   = "yatube"
	sessionAudience = "yatube-web"
	blacklistPrefix = "blacklist:"
)

var (
	ErrInvalidSession = errors.New("invalid session token")
	ErrRevokedSession = errors.New("session has been revoked")
	// ErrRevocationUnavailable means the blacklist could not be consulted.
	ErrRevocationUnavailable = errors.New("session revocation store unavailable")
)

// SessionClaims is the decoded content of a session cookie.
type SessionClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// SessionManager issues and verifies the signed session cookie.
// Revoked token IDs are kept in Redis until the token would have expired.
type SessionManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	rdb        *redis.Client
}

// NewSessionManager creates a SessionManager. rdb may be nil, in which case
// logout only clears the cookie.
func NewSessionManager(secret, cookieName string, ttl time.Duration, secure bool, rdb *redis.Client) *SessionManager {
	if cookieName == "" {
		cookieName = "yatube_session"
	}
	return &SessionManager{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		rdb:        rdb,
	}
}

// CookieName returns the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}

// Issue signs a new session token for userID.
func (m *SessionManager) Issue(userID uint) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.ttl)
	claims := jwt.MapClaims{
		"iss": sessionIssuer,
		"aud": sessionAudience,
		"sub": strconv.FormatUint(uint64(userID), 10),
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates the token signature, issuer, audience and expiry.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidSession
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidSession
	}
	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidSession
	}

	return &SessionClaims{UserID: uint(userID), JTI: jti, ExpiresAt: exp.Time}, nil
}

// Verify parses the token and rejects it if its ID was revoked. When the
// blacklist cannot be read the token is rejected with ErrRevocationUnavailable.
func (m *SessionManager) Verify(ctx context.Context, tokenString string) (*SessionClaims, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.JTI == "" || m.rdb == nil {
		return claims, nil
	}
	revoked, err := m.rdb.Exists(ctx, blacklistPrefix+claims.JTI).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	if revoked > 0 {
		return nil, ErrRevokedSession
	}
	return claims, nil
}

// Revoke blacklists the token ID for the rest of its lifetime.
func (m *SessionManager) Revoke(ctx context.Context, claims *SessionClaims) error {
	if m.rdb == nil || claims == nil || claims.JTI == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, blacklistPrefix+claims.JTI, "1", ttl).Err()
}

// SetCookie writes the session cookie.
func (m *SessionManager) SetCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie in the browser.
func (m *SessionManager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

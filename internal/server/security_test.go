package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"yatube/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/about/author/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestErrorPages(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/no/such/page/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Error 404")

	assert.Equal(t, http.StatusOK, env.get(t, "/about/tech/").StatusCode)
}

func TestCSRF(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) { cfg.CSRFEnabled = true })
	leo := env.createUser(t, "leo")

	resp := env.postForm(t, "/create/", url.Values{"text": {"no token"}}, env.sessionCookie(t, leo))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Error 403")

	form := env.get(t, "/auth/login/")
	assert.Contains(t, body(t, form), `name="csrfmiddlewaretoken"`)
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/health/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.get(t, "/health/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.Equal(t, "healthy", payload.Checks["database"])

	env.redis.Close()
	resp = env.get(t, "/health/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "redis loss degrades but stays ready")
}

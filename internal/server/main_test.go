package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:                 "0",
		JWTSecret:            "test-secret-key-12345678901234567890123456789012",
		Env:                  "test",
		SessionCookie:        "yatube_session",
		SessionTTLHours:      24,
		PageSize:             10,
		IndexCacheTTLSeconds: 20,
		MediaBackend:         config.MediaBackendLocal,
		MediaDir:             t.TempDir(),
		MediaURL:             "/media/",
		ImageMaxUploadSizeMB: 5,
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	for _, fn := range mutate {
		fn(cfg)
	}
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	return &testEnv{server: s, app: s.NewApp(), db: db, redis: mr}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Slug: slug, Title: strings.ToUpper(slug[:1]) + slug[1:]}
	require.NoError(t, e.db.Create(g).Error)
	return g
}

func (e *testEnv) createPost(t *testing.T, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

// sessionCookie signs a session for user the same way Login does.
func (e *testEnv) sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, _, err := e.server.sessions.Issue(user.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: e.server.sessions.CookieName(), Value: token}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, target string, cookies ...*http.Cookie) *http.Response {
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookies...)
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req, cookies...)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

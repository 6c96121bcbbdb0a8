package web

import (
	"bytes"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() *pagination.Page[models.Post] {
	group := &models.Group{ID: 3, Title: "Cats", Slug: "cats"}
	return &pagination.Page[models.Post]{
		Items: []models.Post{
			{
				ID:        7,
				Text:      "first line\nsecond <line>",
				CreatedAt: time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC),
				Author:    models.User{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"},
				Group:     group,
			},
		},
		Number:   2,
		NumPages: 3,
		PerPage:  10,
		Total:    21,
	}
}

func TestRenderer_PostListPartial(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Partial(&buf, "post_list", samplePage()))
	out := buf.String()

	assert.Contains(t, out, `href="/profile/leo/"`)
	assert.Contains(t, out, "Leo Tolstoy")
	assert.Contains(t, out, "first line<br>second &lt;line&gt;")
	assert.Contains(t, out, `href="/group/cats/"`)
	assert.Contains(t, out, `href="/posts/7/"`)
	assert.Contains(t, out, "8 March 2024")
	assert.Contains(t, out, `href="?page=1"`)
	assert.Contains(t, out, `href="?page=3"`)
}

func TestRenderer_Pages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	viewer := &models.User{ID: 1, Username: "reader"}
	page := samplePage()
	post := page.Items[0]
	comments := &pagination.Page[models.Comment]{Number: 1, NumPages: 1}

	pages := map[string]map[string]any{
		"index":        {"PostList": "", "Viewer": viewer},
		"group":        {"Group": post.Group, "Page": page},
		"profile":      {"Author": &post.Author, "Page": page, "Viewer": viewer, "Following": true},
		"follow":       {"Page": page, "Viewer": viewer},
		"post_detail":  {"Post": &post, "Comments": comments, "Viewer": viewer, "Form": map[string]string{}, "Errors": map[string]string{}},
		"create_post":  {"Form": map[string]string{"group": "3"}, "Errors": map[string]string{"text": "This field is required."}, "Groups": []models.Group{*post.Group}},
		"signup":       {"Fields": SignupFields, "Form": map[string]string{}, "Errors": map[string]string{}},
		"login":        {"Form": map[string]string{}, "Errors": map[string]string{}, "Next": "/create/"},
		"logged_out":   {},
		"about_author": {},
		"about_tech":   {},
		"404":          {"Path": "/nowhere/"},
		"403":          {},
		"500":          {},
	}

	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			require.True(t, r.HasPage(name))
			var buf bytes.Buffer
			require.NoError(t, r.Page(&buf, name, data))
			assert.Contains(t, buf.String(), "<title>")
		})
	}
}

func TestRenderer_ProfileFollowButton(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	author := &models.User{ID: 2, Username: "leo"}
	page := &pagination.Page[models.Post]{Number: 1, NumPages: 1}

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, "profile", map[string]any{
		"Author": author, "Page": page, "Viewer": &models.User{ID: 1, Username: "reader"},
	}))
	assert.Contains(t, buf.String(), "/profile/leo/follow/")

	buf.Reset()
	require.NoError(t, r.Page(&buf, "profile", map[string]any{
		"Author": author, "Page": page, "Viewer": author, "IsSelf": true,
	}))
	assert.NotContains(t, buf.String(), "/profile/leo/follow/")
	assert.NotContains(t, buf.String(), "/profile/leo/unfollow/")
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	assert.Error(t, r.Page(&bytes.Buffer{}, "missing", nil))
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "short", truncateChars(30, "short"))
	assert.Equal(t, "abcd…", truncateChars(5, "abcdefgh"))
}

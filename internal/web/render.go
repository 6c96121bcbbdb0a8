// Package web holds the HTML templates and the renderer that executes them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"yatube/internal/models"
)

//go:embed templates
var templatesFS embed.FS

// Renderer executes page templates inside the base layout. Every page is
// parsed into its own clone of the layout and partial set so that pages can
// each define "title" and "content".
type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templatesFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	shared, err := template.New("").Funcs(Funcs()).ParseFS(fsys,
		"templates/layouts/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	files, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := shared.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	partials, err := shared.Clone()
	if err != nil {
		return nil, err
	}
	return &Renderer{pages: pages, partials: partials}, nil
}

// Page renders a full page by name, e.g. "index" or "404".
func (r *Renderer) Page(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Partial renders one named fragment, such as "post_list".
func (r *Renderer) Partial(w io.Writer, name string, data any) error {
	return r.partials.ExecuteTemplate(w, name, data)
}

// HasPage reports whether a page template exists.
func (r *Renderer) HasPage(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"date":         formatDate,
		"linebreaksbr": linebreaksbr,
		"truncate":     truncateChars,
		"pageRange":    pageRange,
		"dict":         dict,
		"fullName":     fullName,
	}
}

func fullName(u models.User) string {
	return u.FullName()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

func linebreaksbr(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// truncateChars cuts s to n runes, ending with an ellipsis when shortened.
func truncateChars(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func pageRange(numPages int) []int {
	out := make([]int, numPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// dict builds a map from alternating keys and values for passing several
// values into a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

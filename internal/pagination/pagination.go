// Package pagination splits ordered listings into fixed-size pages.
//
// Page numbers come from the raw "page" query value: a value that is not an
// integer selects the first page, and a number outside 1..NumPages selects
// the last page. An empty listing still has one (empty) page.
package pagination

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// DefaultPerPage is the listing page size used across the site.
const DefaultPerPage = 10

// Page is one slice of an ordered listing plus navigation metadata.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Total    int64
	PerPage  int
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

// HasPrevious reports whether an earlier page exists.
func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

// HasOtherPages reports whether the listing spans more than one page.
func (p *Page[T]) HasOtherPages() bool { return p.NumPages > 1 }

func (p *Page[T]) NextNumber() int { return p.Number + 1 }

func (p *Page[T]) PreviousNumber() int { return p.Number - 1 }

// NumPages returns how many pages total rows occupy; never less than one.
func NumPages(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// ResolveNumber maps a raw page query value onto a valid page number.
func ResolveNumber(raw string, numPages int) int {
	if numPages < 1 {
		numPages = 1
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

// Paginate counts the rows matched by base, resolves rawPage and loads that
// page. base must already carry its Model, filters and ordering; load, when
// non-nil, adds eager loading to the fetch query only.
func Paginate[T any](ctx context.Context, base *gorm.DB, rawPage string, perPage int, load func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	base = base.WithContext(ctx).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count page rows: %w", err)
	}

	page := &Page[T]{
		NumPages: NumPages(total, perPage),
		Total:    total,
		PerPage:  perPage,
	}
	page.Number = ResolveNumber(rawPage, page.NumPages)

	if total == 0 {
		page.Items = []T{}
		return page, nil
	}

	q := base
	if load != nil {
		q = load(q)
	}
	var items []T
	if err := q.Offset((page.Number - 1) * perPage).Limit(perPage).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load page %d: %w", page.Number, err)
	}
	page.Items = items
	return page, nil
}

// CanonicalNumber folds raw page values that always resolve to the same page
// onto one spelling: anything that is not an integer becomes "1", and every
// number below one becomes "0". Leading zeros and signs are dropped.
func CanonicalNumber(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		return "1"
	case n < 1:
		return "0"
	}
	return strconv.Itoa(n)
}

package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxSlugLength       = 50
	maxGroupTitleLength = 200
	maxTextLength       = 50000
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// reservedSlugs would shadow fixed routes if they were used as group slugs.
var reservedSlugs = map[string]struct{}{
	"create":  {},
	"follow":  {},
	"auth":    {},
	"about":   {},
	"media":   {},
	"metrics": {},
	"health":  {},
	"static":  {},
}

// ValidateSlug checks a group slug.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("This field is required.")
	}
	if len(slug) > maxSlugLength {
		return fmt.Errorf("slug must not exceed %d characters", maxSlugLength)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	if _, reserved := reservedSlugs[strings.ToLower(slug)]; reserved {
		return fmt.Errorf("slug %q is reserved", slug)
	}
	return nil
}

// ValidateGroupTitle checks a group title.
func ValidateGroupTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("This field is required.")
	}
	if utf8.RuneCountInString(title) > maxGroupTitleLength {
		return fmt.Errorf("title must not exceed %d characters", maxGroupTitleLength)
	}
	return nil
}

// ValidateText checks the body of a post or comment. Whitespace-only text is empty.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("This field is required.")
	}
	if utf8.RuneCountInString(text) > maxTextLength {
		return fmt.Errorf("text must not exceed %d characters", maxTextLength)
	}
	return nil
}

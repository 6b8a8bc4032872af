package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"blogicum/internal/models"
)

var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidateSlug checks a category slug: letters, digits, hyphens and
// underscores, at most models.MaxSlugLength characters.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > models.MaxSlugLength {
		return fmt.Errorf("slug must not exceed %d characters", models.MaxSlugLength)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug may only contain Latin letters, digits, hyphens and underscores")
	}
	return nil
}

// ValidateTitle checks a required, length-bounded text field such as a post
// title or a location name. Length is counted in characters, not bytes.
func ValidateTitle(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > models.MaxLength {
		return fmt.Errorf("%s must not exceed %d characters", field, models.MaxLength)
	}
	return nil
}

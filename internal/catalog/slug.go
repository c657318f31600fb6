package catalog

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdgeDashes   = regexp.MustCompile(`^-+|-+$`)
)

// Slugify lowercases the English name and collapses anything that is not
// alphanumeric into single dashes. Arabic-only names fall back to a short
// random handle so the slug column is never empty.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugEdgeDashes.ReplaceAllString(slug, "")
	if slug == "" {
		slug = fmt.Sprintf("item-%04d", rand.Intn(10000))
	}
	if len(slug) > 120 {
		slug = strings.Trim(slug[:120], "-")
	}
	return slug
}

// WithSuffix appends a short random suffix, used to resolve slug collisions.
func WithSuffix(slug string) string {
	return fmt.Sprintf("%s-%04d", slug, rand.Intn(10000))
}

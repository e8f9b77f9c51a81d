package domain

import (
	"regexp"
	"strings"
)

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]+`)
	slugSpaces = regexp.MustCompile(`[\s-]+`)
)

// Slugify lower-cases s, drops punctuation and joins words with hyphens.
// "Robotics Club!" -> "robotics-club".
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

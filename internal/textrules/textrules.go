// Package textrules holds the stateless measurement and predicate primitives
// shared by the QC and editorial layers.
package textrules

import (
	"regexp"
	"strings"
)

var (
	tagExpr      = regexp.MustCompile(`<[^>]+>`)
	badSlugExpr  = regexp.MustCompile(`[^a-z0-9A-Z\-]`)
	slugCharExpr = regexp.MustCompile(`[^a-z0-9\-]`)
	hyphenRuns   = regexp.MustCompile(`-+`)
)

// StripTags replaces every markup tag with a space so word boundaries survive
// tag removal.
func StripTags(content string) string {
	return tagExpr.ReplaceAllString(content, " ")
}

// WordCount counts whitespace-delimited tokens after markup removal.
func WordCount(content string) int {
	return len(strings.Fields(StripTags(content)))
}

// RenderedTitleLen is the length of the title as the site renders it, with
// the brand suffix appended.
func RenderedTitleLen(title, brandSuffix string) int {
	return len(title) + len(brandSuffix)
}

// SlugValid reports whether a slug is already in canonical form: lowercase,
// restricted to letters/digits/hyphen, no trailing separator.
func SlugValid(slug string) bool {
	if slug != strings.ToLower(slug) {
		return false
	}
	if badSlugExpr.MatchString(slug) {
		return false
	}
	return !strings.HasSuffix(slug, "/")
}

// NormalizeSlug rewrites a slug into canonical form: lowercase, separators
// trimmed, disallowed characters replaced with hyphens, hyphen runs
// collapsed.
func NormalizeSlug(slug string) string {
	slug = strings.Trim(strings.ToLower(slug), "/")
	slug = slugCharExpr.ReplaceAllString(slug, "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SplitSentences splits text on sentence-final punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if (c == '.' || c == '!' || c == '?') && i+1 < len(runes) && isSpace(runes[i+1]) {
			out = append(out, string(runes[start:i+1]))
			i++
			for i < len(runes) && isSpace(runes[i]) {
				i++
			}
			start = i
			i--
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

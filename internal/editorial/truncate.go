package editorial

import (
	"strings"
	"unicode/utf8"

	"ArticlePublisher/internal/textrules"
)

// truncateTitle shortens an over-length title. Priority: drop a trailing
// colon subtitle, then a trailing dash clause, then hard-truncate at a word
// boundary with an ellipsis. Each dropped clause must leave the base within
// the title length bounds or the next strategy is tried.
func (f *Fixer) truncateTitle(title string) string {
	if len(title) <= f.rules.MaxTitleRaw {
		return title
	}

	if idx := strings.LastIndex(title, ":"); idx >= 0 {
		base := strings.TrimSpace(title[:idx])
		if len(base) >= f.rules.MinTitle && len(base) <= f.rules.MaxTitleRaw {
			return base
		}
	}

	for _, sep := range []string{" — ", " – ", " - "} {
		if idx := strings.LastIndex(title, sep); idx >= 0 {
			base := strings.TrimSpace(title[:idx])
			if len(base) >= f.rules.MinTitle && len(base) <= f.rules.MaxTitleRaw {
				return base
			}
		}
	}

	truncated := cutAtRuneBoundary(title, f.rules.MaxTitleRaw-3)
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > f.rules.MinTitle {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimRight(truncated, ".,;:!? ") + "..."
}

// truncateExcerpt shortens an over-length excerpt by greedily accumulating
// whole sentences, falling back to a hard word-boundary cut ended with a
// period when whole sentences cannot reach the minimum length.
func (f *Fixer) truncateExcerpt(excerpt string) string {
	if len(excerpt) <= f.rules.MaxExcerpt {
		return excerpt
	}

	built := ""
	for _, sentence := range textrules.SplitSentences(excerpt) {
		candidate := sentence
		if built != "" {
			candidate = strings.TrimSpace(built + " " + sentence)
		}
		if len(candidate) > f.rules.MaxExcerpt {
			break
		}
		built = candidate
	}
	if built != "" && len(built) >= f.rules.MinExcerpt {
		return built
	}

	truncated := cutAtRuneBoundary(excerpt, f.rules.MaxExcerpt-1)
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > f.rules.MinExcerpt {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimRight(truncated, ".,;:!? ") + "."
}

// cutAtRuneBoundary slices to at most n bytes without splitting a rune.
func cutAtRuneBoundary(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

package htmlscan

import (
	"regexp"
	"strconv"
)

var (
	headingExpr = regexp.MustCompile(`<h([1-6])`)
	anchorExpr  = regexp.MustCompile(`(?s)(<a\s[^>]*?href="([^"]+)"[^>]*>)(.*?)</a>`)
	imageExpr   = regexp.MustCompile(`<img\s([^>]+)>`)
	paraExpr    = regexp.MustCompile(`(?s)<p>(.*?)</p>`)
)

// PatternScanner extracts elements with anchored regular expressions. It is
// deliberately tolerant: unexpected markup yields empty results, not errors.
// This is the default implementation; article markup is generated, flat, and
// attribute-light, which keeps pattern matching sufficient for the rule set.
type PatternScanner struct{}

var _ Scanner = (*PatternScanner)(nil)

// NewPatternScanner returns the regexp-backed scanner.
func NewPatternScanner() *PatternScanner {
	return &PatternScanner{}
}

// Name identifies the strategy inside the registry.
func (p *PatternScanner) Name() string {
	return "pattern"
}

// Headings returns heading levels in document order.
func (p *PatternScanner) Headings(content string) []int {
	matches := headingExpr.FindAllStringSubmatch(content, -1)
	levels := make([]int, 0, len(matches))
	for _, m := range matches {
		level, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		levels = append(levels, level)
	}
	return levels
}

// Links returns every anchor with an href attribute.
func (p *PatternScanner) Links(content string) []Link {
	matches := anchorExpr.FindAllStringSubmatch(content, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{Tag: m[1], Href: m[2], Label: m[3]})
	}
	return links
}

// Images returns every inline image's attribute text.
func (p *PatternScanner) Images(content string) []Image {
	matches := imageExpr.FindAllStringSubmatch(content, -1)
	images := make([]Image, 0, len(matches))
	for _, m := range matches {
		images = append(images, Image{Tag: m[1]})
	}
	return images
}

// Paragraphs returns the inner content of every paragraph element.
func (p *PatternScanner) Paragraphs(content string) []string {
	matches := paraExpr.FindAllStringSubmatch(content, -1)
	paras := make([]string, 0, len(matches))
	for _, m := range matches {
		paras = append(paras, m[1])
	}
	return paras
}

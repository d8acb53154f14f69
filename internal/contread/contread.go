// Package contread models the trailing "Continue Reading" block embedded at
// the end of article content.
package contread

import (
	"fmt"
	"regexp"
	"strings"
)

// sectionExpr anchors the marker block (separator rule, heading, list) at the
// end of the content so splitting is lossless.
var (
	sectionExpr = regexp.MustCompile(`(?si)(\s*<hr\s*/?>[\s\n]*<h3>Continue Reading</h3>[\s\n]*<ul>.*?</ul>)\s*$`)
	linkExpr    = regexp.MustCompile(`<a href="([^"]+)">([^<]+)</a>`)
)

// Link is one related-links entry.
type Link struct {
	URL   string
	Label string
}

// Split divides content into (body, section). The section is returned with
// its leading separator intact; body + section reconstructs the original when
// nothing was added. The second return is "" when no section exists.
func Split(content string) (string, string) {
	loc := sectionExpr.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, ""
	}
	return content[:loc[0]], content[loc[2]:loc[3]]
}

// Extract returns the ordered link list inside a section's markup.
func Extract(section string) []Link {
	if section == "" {
		return nil
	}
	matches := linkExpr.FindAllStringSubmatch(section, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{URL: m[1], Label: m[2]})
	}
	return links
}

// Build renders the fixed marker, heading, and one list item per link, in the
// given order. Labels are assumed free of embedded markup.
func Build(links []Link) string {
	items := make([]string, 0, len(links))
	for _, l := range links {
		items = append(items, fmt.Sprintf(`<li><a href="%s">%s</a></li>`, l.URL, l.Label))
	}
	return "\n\n<hr />\n\n<h3>Continue Reading</h3>\n<ul>\n" + strings.Join(items, "\n") + "\n</ul>"
}

// Contains reports whether any link in the list targets the given path,
// insensitive to a trailing slash on the path.
func Contains(links []Link, path string) bool {
	needle := strings.TrimRight(path, "/")
	for _, l := range links {
		if strings.Contains(l.URL, needle) {
			return true
		}
	}
	return false
}

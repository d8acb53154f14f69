package htmlscan

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOMScanner extracts elements through a parsed document tree. Selectable via
// configuration for content whose markup is too irregular for the pattern
// scanner; both implementations return the same shapes.
type DOMScanner struct{}

var _ Scanner = (*DOMScanner)(nil)

// NewDOMScanner returns the goquery-backed scanner.
func NewDOMScanner() *DOMScanner {
	return &DOMScanner{}
}

// Name identifies the strategy inside the registry.
func (d *DOMScanner) Name() string {
	return "dom"
}

func parse(content string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		// Tolerant extraction: a document that cannot be parsed contributes
		// no elements rather than failing the scan.
		empty, _ := goquery.NewDocumentFromReader(strings.NewReader(""))
		return empty
	}
	return doc
}

// Headings returns heading levels in document order.
func (d *DOMScanner) Headings(content string) []int {
	var levels []int
	parse(content).Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if len(name) == 2 && name[0] == 'h' {
			levels = append(levels, int(name[1]-'0'))
		}
	})
	return levels
}

// Links returns every anchor with an href attribute.
func (d *DOMScanner) Links(content string) []Link {
	var links []Link
	parse(content).Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, Link{
			Href:  href,
			Tag:   openingTag(s),
			Label: s.Text(),
		})
	})
	return links
}

// Images returns every inline image's attribute text.
func (d *DOMScanner) Images(content string) []Image {
	var images []Image
	parse(content).Find("img").Each(func(_ int, s *goquery.Selection) {
		tag := openingTag(s)
		tag = strings.TrimPrefix(tag, "<img")
		tag = strings.TrimSuffix(tag, ">")
		tag = strings.TrimSuffix(tag, "/")
		images = append(images, Image{Tag: strings.TrimSpace(tag)})
	})
	return images
}

// Paragraphs returns the inner content of every paragraph element.
func (d *DOMScanner) Paragraphs(content string) []string {
	var paras []string
	parse(content).Find("p").Each(func(_ int, s *goquery.Selection) {
		inner, err := s.Html()
		if err != nil {
			return
		}
		paras = append(paras, inner)
	})
	return paras
}

func openingTag(s *goquery.Selection) string {
	outer, err := goquery.OuterHtml(s)
	if err != nil {
		return ""
	}
	if idx := strings.IndexByte(outer, '>'); idx >= 0 {
		return outer[:idx+1]
	}
	return outer
}

// Package htmlscan isolates markup extraction behind a small interface so
// the rule engines never touch pattern logic directly and the extraction
// strategy can be swapped without changing a single rule.
package htmlscan

import "fmt"

// Link is one anchor element: its href, its full opening tag, and its label
// text.
type Link struct {
	Href  string
	Tag   string
	Label string
}

// Image is one inline image element; Tag carries the attribute text.
type Image struct {
	Tag string
}

// Scanner extracts structural elements from an article's markup string.
type Scanner interface {
	Name() string
	// Headings returns the ordered sequence of heading levels (1..6).
	Headings(content string) []int
	Links(content string) []Link
	Images(content string) []Image
	// Paragraphs returns the inner content of every paragraph element.
	Paragraphs(content string) []string
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(s Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[s.Name()] = s
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if s, ok := r.scanners[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// DefaultRegistry registers the built-in pattern and DOM scanners.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPatternScanner())
	r.Register(NewDOMScanner())
	return r
}

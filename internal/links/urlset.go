package links

import "strings"

// URLSet is the set of canonical resolvable site paths. Paths are stored
// slash-terminated as the site emits them; membership checks also try the
// normalized trailing-slash form of the query.
type URLSet struct {
	paths map[string]struct{}
}

// NewURLSet returns an empty set.
func NewURLSet() *URLSet {
	return &URLSet{paths: map[string]struct{}{}}
}

// Add inserts a path verbatim.
func (s *URLSet) Add(path string) {
	s.paths[path] = struct{}{}
}

// AddArticle inserts the canonical article path for a slug.
func (s *URLSet) AddArticle(slug string) {
	s.Add("/articles/" + slug + "/")
}

// Resolves reports whether a link target is known, checked both verbatim and
// with a normalizing trailing slash.
func (s *URLSet) Resolves(link string) bool {
	if _, ok := s.paths[strings.TrimRight(link, "/")+"/"]; ok {
		return true
	}
	_, ok := s.paths[link]
	return ok
}

// Len returns the number of known paths.
func (s *URLSet) Len() int {
	return len(s.paths)
}

// BuildInput carries everything the URL-set builder needs: the published
// article slugs plus the configured site path inventory.
type BuildInput struct {
	PublishedSlugs []string
	Categories     map[string]Category
	Destinations   []string
	Experiences    []string
	UtilityPages   []string
	ExtraPaths     []string
}

// BuildURLSet assembles the valid-URL set fresh for one pipeline invocation.
// It is never cached across runs; the published set may change between them.
func BuildURLSet(in BuildInput) *URLSet {
	s := NewURLSet()
	for _, p := range []string{"/", "/articles/", "/destinations/", "/experiences/"} {
		s.Add(p)
	}
	for _, slug := range in.PublishedSlugs {
		s.AddArticle(slug)
	}
	for catSlug, cat := range in.Categories {
		s.Add("/articles/category/" + catSlug + "/")
		if cat.Hub != "" {
			s.Add(cat.Hub)
		}
	}
	for _, d := range in.Destinations {
		s.Add("/destinations/" + d + "/")
	}
	for _, e := range in.Experiences {
		s.Add("/experiences/" + e + "/")
	}
	for _, u := range in.UtilityPages {
		s.Add("/" + u + "/")
	}
	for _, p := range in.ExtraPaths {
		s.Add(p)
	}
	return s
}

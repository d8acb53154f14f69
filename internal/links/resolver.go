// Package links resolves category hubs and assembles the set of canonical
// site paths used for internal-link validation.
package links

// Category describes one registered editorial category. An empty Hub means
// the category intentionally has no hub page.
type Category struct {
	Hub   string
	Label string
}

// Resolver answers hub questions from the injected category table.
type Resolver struct {
	categories   map[string]Category
	defaultLabel string
}

// NewResolver wires the category→hub mapping.
func NewResolver(categories map[string]Category, defaultLabel string) *Resolver {
	return &Resolver{categories: categories, defaultLabel: defaultLabel}
}

// Registered reports whether a category slug is present in the mapping at
// all. Absence is a blocking condition for publication.
func (r *Resolver) Registered(categorySlug string) bool {
	_, ok := r.categories[categorySlug]
	return ok
}

// HubFor returns the canonical hub path for a category, or "" when the
// category has none. An explicit override wins.
func (r *Resolver) HubFor(categorySlug, override string) string {
	if override != "" {
		return override
	}
	return r.categories[categorySlug].Hub
}

// HubLabel returns the display label for a hub path.
func (r *Resolver) HubLabel(hub string) string {
	for _, cat := range r.categories {
		if cat.Hub != "" && cat.Hub == hub && cat.Label != "" {
			return cat.Label
		}
	}
	return r.defaultLabel
}

// Categories returns the raw mapping (read-only by convention).
func (r *Resolver) Categories() map[string]Category {
	return r.categories
}

package domain

// ArticleType selects the minimum-word-count policy applied to an article.
type ArticleType string

const (
	// TypeCluster is standard editorial content.
	TypeCluster ArticleType = "cluster"
	// TypePillar is long-form cornerstone content with a higher word floor.
	TypePillar ArticleType = "pillar"
)

// Article is the mutable unit of work moving through the pipeline.
// The editorial fixer may rewrite Title, Excerpt, Slug, and Content; the QC
// engine only reads.
type Article struct {
	Title               string      `yaml:"title"`
	Slug                string      `yaml:"slug"`
	Excerpt             string      `yaml:"excerpt"`
	Content             string      `yaml:"content"`
	CategorySlug        string      `yaml:"categorySlug"`
	CategoryName        string      `yaml:"categoryName"`
	CategoryDescription string      `yaml:"categoryDescription"`
	CategoryID          int         `yaml:"categoryId"`
	ArticleID           int         `yaml:"articleId"`
	ImageURL            string      `yaml:"imageUrl"`
	ImageAlt            string      `yaml:"imageAlt"`
	Date                string      `yaml:"date"`
	Type                ArticleType `yaml:"articleType"`
}

// Issue is a single QC finding. Severity is implied by the list it is
// returned in (fixable vs blocking); issues are recomputed on every pass and
// never persisted.
type Issue struct {
	Rule    string
	Message string
}

// Report collects the two ordered issue lists produced by one QC pass over
// one article.
type Report struct {
	Fixable  []Issue
	Blocking []Issue
}

// AddFixable appends a cosmetic issue the editorial fixer may resolve.
func (r *Report) AddFixable(rule, message string) {
	r.Fixable = append(r.Fixable, Issue{Rule: rule, Message: message})
}

// AddBlocking appends an issue requiring a human content decision.
func (r *Report) AddBlocking(rule, message string) {
	r.Blocking = append(r.Blocking, Issue{Rule: rule, Message: message})
}

// Clean reports whether the pass found nothing at all.
func (r *Report) Clean() bool {
	return len(r.Fixable) == 0 && len(r.Blocking) == 0
}

// All returns blocking and fixable issues as one list, blocking first.
func (r *Report) All() []Issue {
	out := make([]Issue, 0, len(r.Blocking)+len(r.Fixable))
	out = append(out, r.Blocking...)
	out = append(out, r.Fixable...)
	return out
}

// FixEntry records the changes the editorial fixer applied to one article.
type FixEntry struct {
	Slug    string
	Changes []string
}

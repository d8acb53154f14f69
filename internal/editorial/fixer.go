// Package editorial applies the deterministic auto-fixes for every fixable
// QC rule, in a fixed order, mutating articles in place. Running the full
// sequence twice yields no further changes; the pipeline's final QC pass
// depends on that.
package editorial

import (
	"fmt"
	"regexp"
	"strings"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/contread"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/links"
	"ArticlePublisher/internal/textrules"
)

var (
	externalAnchorExpr = regexp.MustCompile(`<a\s+[^>]*?href="https?://[^"]*"[^>]*>`)
	relAttrExpr        = regexp.MustCompile(`rel="([^"]*)"`)
	h1OpenExpr         = regexp.MustCompile(`<h1([^>]*)>`)
	emptyParaExpr      = regexp.MustCompile(`<p>\s*</p>`)
)

// Fixer rewrites articles to satisfy the fixable portion of the rulebook.
type Fixer struct {
	rules    config.EditorialConfig
	mojibake *textrules.MojibakeTable
	resolver *links.Resolver
}

// New wires the injected rulebook and collaborators.
func New(rules config.EditorialConfig, mojibake *textrules.MojibakeTable, resolver *links.Resolver) *Fixer {
	return &Fixer{rules: rules, mojibake: mojibake, resolver: resolver}
}

// sibling is the post-fix projection of one batch member: the slug and title
// it will carry after its own fixes run.
type sibling struct {
	slug  string
	title string
}

// FixBatch applies every applicable fix to every article and returns the
// change log. Sibling slugs and titles are snapshotted as their post-fix
// projection before any article is mutated, so cross-document reads do not
// depend on batch order.
func (f *Fixer) FixBatch(batch []*domain.Article, hubOverride string) []domain.FixEntry {
	projected := make([]sibling, len(batch))
	for i, a := range batch {
		projected[i] = sibling{
			slug:  textrules.NormalizeSlug(a.Slug),
			title: f.mojibake.Repair(f.truncateTitleIfNeeded(a.Title)),
		}
	}

	var log []domain.FixEntry
	for i, a := range batch {
		siblings := make([]sibling, 0, len(batch)-1)
		for j, s := range projected {
			if j != i {
				siblings = append(siblings, s)
			}
		}
		changes := f.fixOne(a, siblings, hubOverride)
		if len(changes) > 0 {
			log = append(log, domain.FixEntry{Slug: a.Slug, Changes: changes})
		}
	}
	return log
}

// FixArticle fixes a single article with no batch siblings.
func (f *Fixer) FixArticle(a *domain.Article, hubOverride string) []string {
	return f.fixOne(a, nil, hubOverride)
}

func (f *Fixer) fixOne(a *domain.Article, siblings []sibling, hubOverride string) []string {
	var changes []string
	hub := f.resolver.HubFor(a.CategorySlug, hubOverride)

	// 1. Title truncation.
	if textrules.RenderedTitleLen(a.Title, f.rules.BrandSuffix) > f.rules.MaxRenderedTitle {
		old := a.Title
		a.Title = f.truncateTitle(a.Title)
		changes = append(changes, fmt.Sprintf("title: %q (%d) -> %q (%d)", old, len(old), a.Title, len(a.Title)))
	}

	// 2. Excerpt truncation.
	if len(a.Excerpt) > f.rules.MaxExcerpt {
		oldLen := len(a.Excerpt)
		a.Excerpt = f.truncateExcerpt(a.Excerpt)
		changes = append(changes, fmt.Sprintf("excerpt: %d -> %d chars", oldLen, len(a.Excerpt)))
	}

	// 3. Slug normalization.
	if clean := textrules.NormalizeSlug(a.Slug); clean != a.Slug {
		changes = append(changes, fmt.Sprintf("slug: %q -> %q", a.Slug, clean))
		a.Slug = clean
	}

	// 4. Garbled-text repair.
	if f.mojibake.Detect(a.Content) {
		a.Content = f.mojibake.Repair(a.Content)
		changes = append(changes, "fixed mojibake in content")
	}
	if f.mojibake.Detect(a.Title) {
		a.Title = f.mojibake.Repair(a.Title)
		changes = append(changes, "fixed mojibake in title")
	}
	if f.mojibake.Detect(a.Excerpt) {
		a.Excerpt = f.mojibake.Repair(a.Excerpt)
		changes = append(changes, "fixed mojibake in excerpt")
	}

	// 5. External-link hardening.
	if fixed, changed := HardenExternalLinks(a.Content); changed {
		a.Content = fixed
		changes = append(changes, "added rel/target to external links")
	}

	// 6. Heading downgrade.
	if strings.Contains(a.Content, "<h1") {
		a.Content = downgradeHeadings(a.Content)
		changes = append(changes, "downgraded <h1> to <h2>")
	}

	// 7. Empty-paragraph removal.
	if emptyParaExpr.MatchString(a.Content) {
		a.Content = emptyParaExpr.ReplaceAllString(a.Content, "")
		changes = append(changes, "removed empty <p> tags")
	}

	// 8. Continue Reading synthesis/repair.
	if change := f.fixContinueReading(a, siblings, hub); change != "" {
		changes = append(changes, change)
	}

	return changes
}

// fixContinueReading merges the hub link into an existing section, or
// synthesizes a section from up to four siblings plus the hub. With no
// candidates at all, nothing is synthesized.
func (f *Fixer) fixContinueReading(a *domain.Article, siblings []sibling, hub string) string {
	body, section := contread.Split(a.Content)

	if section != "" {
		crLinks := contread.Extract(section)
		if hub == "" || contread.Contains(crLinks, hub) {
			return ""
		}
		crLinks = append(crLinks, contread.Link{URL: hub, Label: f.resolver.HubLabel(hub)})
		a.Content = body + contread.Build(crLinks)
		return fmt.Sprintf("injected hub link (%s) into Continue Reading", hub)
	}

	var crLinks []contread.Link
	for i, sib := range siblings {
		if i == 4 {
			break
		}
		crLinks = append(crLinks, contread.Link{URL: "/articles/" + sib.slug + "/", Label: sib.title})
	}
	if hub != "" {
		crLinks = append(crLinks, contread.Link{URL: hub, Label: f.resolver.HubLabel(hub)})
	}
	if len(crLinks) == 0 {
		return ""
	}
	a.Content = body + contread.Build(crLinks)
	return fmt.Sprintf("generated Continue Reading (%d links)", len(crLinks))
}

// HardenExternalLinks injects the missing security attributes into every
// absolute-URL anchor tag, leaving attributes already present untouched.
// Exposed for the store-repair modes.
func HardenExternalLinks(content string) (string, bool) {
	needsFix := false
	for _, tag := range externalAnchorExpr.FindAllString(content, -1) {
		if !strings.Contains(tag, "noopener") || !strings.Contains(tag, "noreferrer") || !strings.Contains(tag, "target=") {
			needsFix = true
			break
		}
	}
	if !needsFix {
		return content, false
	}
	return externalAnchorExpr.ReplaceAllStringFunc(content, hardenTag), true
}

func hardenTag(tag string) string {
	if !strings.Contains(tag, "rel=") {
		tag = strings.Replace(tag, ">", ` rel="noopener noreferrer" target="_blank">`, 1)
	} else {
		tag = relAttrExpr.ReplaceAllStringFunc(tag, func(rel string) string {
			m := relAttrExpr.FindStringSubmatch(rel)
			value := m[1]
			for _, required := range []string{"noopener", "noreferrer"} {
				if !strings.Contains(value, required) {
					value = strings.TrimSpace(value + " " + required)
				}
			}
			return `rel="` + value + `"`
		})
	}
	if !strings.Contains(tag, "target=") {
		tag = strings.Replace(tag, ">", ` target="_blank">`, 1)
	}
	return tag
}

// DowngradeHeadings rewrites every top-level heading to <h2>, opening and
// closing tags both. Exposed for the store-repair modes.
func DowngradeHeadings(content string) string {
	return downgradeHeadings(content)
}

func downgradeHeadings(content string) string {
	content = h1OpenExpr.ReplaceAllString(content, "<h2$1>")
	return strings.ReplaceAll(content, "</h1>", "</h2>")
}

// RemoveEmptyParagraphs deletes paragraph elements containing only
// whitespace. Exposed for the store-repair modes.
func RemoveEmptyParagraphs(content string) (string, bool) {
	if !emptyParaExpr.MatchString(content) {
		return content, false
	}
	return emptyParaExpr.ReplaceAllString(content, ""), true
}

func (f *Fixer) truncateTitleIfNeeded(title string) string {
	if textrules.RenderedTitleLen(title, f.rules.BrandSuffix) > f.rules.MaxRenderedTitle {
		return f.truncateTitle(title)
	}
	return title
}

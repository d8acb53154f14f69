// Package qc runs the editorial/SEO rulebook against one article and its
// batch context, classifying every violation as auto-fixable or blocking.
// The split is fixed per rule: it encodes which rewrites are allowed to
// happen without a human.
package qc

import (
	"fmt"
	"strings"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/contread"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/htmlscan"
	"ArticlePublisher/internal/links"
	"ArticlePublisher/internal/textrules"
)

// Env carries the batch context for one QC pass. ValidURLs and
// ExistingSlugs are optional; a nil value disables the corresponding check.
type Env struct {
	HubOverride   string
	SiblingSlugs  []string
	ValidURLs     *links.URLSet
	ExistingSlugs map[string]bool
}

// Checker evaluates the rulebook. It never mutates an article.
type Checker struct {
	rules    config.EditorialConfig
	mojibake *textrules.MojibakeTable
	scan     htmlscan.Scanner
	resolver *links.Resolver
}

// New wires the injected rulebook and collaborators.
func New(rules config.EditorialConfig, mojibake *textrules.MojibakeTable, scan htmlscan.Scanner, resolver *links.Resolver) *Checker {
	return &Checker{rules: rules, mojibake: mojibake, scan: scan, resolver: resolver}
}

// pass bundles the per-article state shared between rule checks.
type pass struct {
	a    *domain.Article
	env  Env
	body string
	cr   string
	hub  string
	rep  *domain.Report
}

// Check runs every rule in fixed order and returns the two issue lists.
func (c *Checker) Check(a *domain.Article, env Env) domain.Report {
	body, cr := contread.Split(a.Content)
	p := &pass{
		a:    a,
		env:  env,
		body: body,
		cr:   cr,
		hub:  c.resolver.HubFor(a.CategorySlug, env.HubOverride),
		rep:  &domain.Report{},
	}

	for _, check := range []func(*pass){
		c.checkTitle,
		c.checkExcerpt,
		c.checkSlug,
		c.checkDuplicateSlug,
		c.checkImageURL,
		c.checkDepth,
		c.checkRequiredFields,
		c.checkCategory,
		c.checkHeadings,
		c.checkMojibake,
		c.checkExternalLinks,
		c.checkEmptyParagraphs,
		c.checkDuplicateParagraphs,
		c.checkInlineImages,
		c.checkBodyLinks,
		c.checkBrokenLinks,
		c.checkHubLink,
		c.checkContinueReading,
	} {
		check(p)
	}

	return *p.rep
}

func (c *Checker) checkTitle(p *pass) {
	rendered := textrules.RenderedTitleLen(p.a.Title, c.rules.BrandSuffix)
	if len(p.a.Title) < c.rules.MinTitle {
		p.rep.AddBlocking("title", fmt.Sprintf("title too short (%d chars, min %d)", len(p.a.Title), c.rules.MinTitle))
	} else if rendered > c.rules.MaxRenderedTitle {
		p.rep.AddFixable("title", fmt.Sprintf("title too long: %d raw, %d rendered (max %d)", len(p.a.Title), rendered, c.rules.MaxRenderedTitle))
	}
}

func (c *Checker) checkExcerpt(p *pass) {
	if len(p.a.Excerpt) < c.rules.MinExcerpt {
		p.rep.AddBlocking("excerpt", fmt.Sprintf("excerpt too short (%d chars, min %d)", len(p.a.Excerpt), c.rules.MinExcerpt))
	} else if len(p.a.Excerpt) > c.rules.MaxExcerpt {
		p.rep.AddFixable("excerpt", fmt.Sprintf("excerpt too long: %d chars (max %d)", len(p.a.Excerpt), c.rules.MaxExcerpt))
	}
}

func (c *Checker) checkSlug(p *pass) {
	if !textrules.SlugValid(p.a.Slug) {
		p.rep.AddFixable("slug", fmt.Sprintf("slug needs cleanup: %q", p.a.Slug))
	}
}

func (c *Checker) checkDuplicateSlug(p *pass) {
	if p.env.ExistingSlugs != nil && p.env.ExistingSlugs[p.a.Slug] {
		p.rep.AddBlocking("duplicate-slug", fmt.Sprintf("slug %q already exists in the store; publishing would overwrite it", p.a.Slug))
	}
}

func (c *Checker) checkImageURL(p *pass) {
	if p.a.ImageURL != "" && !strings.HasPrefix(p.a.ImageURL, "https://") {
		p.rep.AddBlocking("image-url", fmt.Sprintf("image URL must be absolute https:// (got: %s)", truncate(p.a.ImageURL, 50)))
	}
}

func (c *Checker) checkDepth(p *pass) {
	minWords := c.rules.MinWordsCluster
	if p.a.Type == domain.TypePillar {
		minWords = c.rules.MinWordsPillar
	}
	wc := textrules.WordCount(p.body)
	if wc < minWords {
		p.rep.AddBlocking("depth", fmt.Sprintf("content too thin (%d words, min %d for %s)", wc, minWords, p.a.Type))
	}
}

func (c *Checker) checkRequiredFields(p *pass) {
	if p.a.ImageURL == "" {
		p.rep.AddBlocking("required-fields", "missing featured image URL")
	}
	if p.a.ImageAlt == "" {
		p.rep.AddBlocking("required-fields", "missing featured image alt text")
	}
	if p.a.CategorySlug == "" {
		p.rep.AddBlocking("required-fields", "missing category slug")
	}
	if p.a.CategoryName == "" {
		p.rep.AddBlocking("required-fields", "missing category name")
	}
}

func (c *Checker) checkCategory(p *pass) {
	if p.a.CategorySlug != "" && !c.resolver.Registered(p.a.CategorySlug) {
		p.rep.AddBlocking("category", fmt.Sprintf("category %q is not registered; add it before publishing", p.a.CategorySlug))
	}
}

func (c *Checker) checkHeadings(p *pass) {
	levels := c.scan.Headings(p.body)
	for _, level := range levels {
		if level == 1 {
			p.rep.AddFixable("headings", "content contains <h1> (conflicts with page title); will downgrade to <h2>")
			break
		}
	}
	if len(levels) > 0 && levels[0] != 2 && levels[0] != 3 {
		p.rep.AddFixable("headings", fmt.Sprintf("first heading is <h%d> (should be <h2>)", levels[0]))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] > levels[i-1]+1 {
			p.rep.AddFixable("headings", fmt.Sprintf("heading jump: h%d to h%d (skipped h%d)", levels[i-1], levels[i], levels[i-1]+1))
			break
		}
	}
}

func (c *Checker) checkMojibake(p *pass) {
	if c.mojibake.Detect(p.a.Content) {
		p.rep.AddFixable("mojibake", "content has mojibake characters")
	}
	if c.mojibake.Detect(p.a.Title) {
		p.rep.AddFixable("mojibake", "title has mojibake characters")
	}
	if c.mojibake.Detect(p.a.Excerpt) {
		p.rep.AddFixable("mojibake", "excerpt has mojibake characters")
	}
}

func (c *Checker) checkExternalLinks(p *pass) {
	for _, link := range c.scan.Links(p.a.Content) {
		if !isExternal(link.Href) {
			continue
		}
		if !strings.Contains(link.Tag, "noopener") || !strings.Contains(link.Tag, "noreferrer") {
			p.rep.AddFixable("external-links", fmt.Sprintf(`external link missing rel="noopener noreferrer": %s`, truncate(link.Href, 60)))
			break
		}
	}
}

func (c *Checker) checkEmptyParagraphs(p *pass) {
	count := 0
	for _, para := range c.scan.Paragraphs(p.a.Content) {
		if strings.TrimSpace(para) == "" {
			count++
		}
	}
	if count > 0 {
		p.rep.AddFixable("empty-paragraphs", fmt.Sprintf("%d empty <p> tag(s)", count))
	}
}

// checkDuplicateParagraphs is a normalization heuristic: paragraphs are
// compared after trimming, and only above a length gate so short boilerplate
// does not false-positive. It can still misfire on long repeated legal text.
func (c *Checker) checkDuplicateParagraphs(p *pass) {
	seen := map[string]bool{}
	for _, para := range c.scan.Paragraphs(p.a.Content) {
		clean := strings.TrimSpace(para)
		if len(clean) > 50 && seen[clean] {
			p.rep.AddFixable("duplicate-paragraphs", "duplicate paragraph detected")
			break
		}
		seen[clean] = true
	}
}

func (c *Checker) checkInlineImages(p *pass) {
	for _, img := range c.scan.Images(p.a.Content) {
		if !strings.Contains(img.Tag, "alt=") || strings.Contains(img.Tag, `alt=""`) {
			p.rep.AddFixable("inline-images", "inline <img> missing or empty alt text")
			break
		}
	}
}

func (c *Checker) checkBodyLinks(p *pass) {
	count := len(internalLinks(c.scan, p.body))
	if count < c.rules.MinBodyInternalLinks {
		p.rep.AddFixable("body-links", fmt.Sprintf("body has %d internal link(s) (min %d)", count, c.rules.MinBodyInternalLinks))
	}
}

// checkBrokenLinks resolves each root-relative link against the valid-URL
// set, verbatim and with a normalizing trailing slash. A link present only in
// an unchecked alternate form still reports as broken; accepted heuristic.
func (c *Checker) checkBrokenLinks(p *pass) {
	if p.env.ValidURLs == nil {
		return
	}
	for _, link := range internalLinks(c.scan, p.a.Content) {
		if !p.env.ValidURLs.Resolves(link.Href) {
			p.rep.AddFixable("broken-links", fmt.Sprintf("internal link target may not exist: %s", link.Href))
		}
	}
}

func (c *Checker) checkHubLink(p *pass) {
	if p.hub == "" {
		return
	}
	needle := strings.TrimRight(p.hub, "/")
	for _, link := range internalLinks(c.scan, p.a.Content) {
		if strings.Contains(link.Href, needle) {
			return
		}
	}
	p.rep.AddFixable("hub-link", fmt.Sprintf("missing hub link (%s)", p.hub))
}

func (c *Checker) checkContinueReading(p *pass) {
	if p.cr == "" {
		p.rep.AddFixable("continue-reading", "no Continue Reading section")
		return
	}

	crLinks := contread.Extract(p.cr)

	others := 0
	for _, s := range p.env.SiblingSlugs {
		if s != p.a.Slug {
			others++
		}
	}
	available := others
	if p.hub != "" {
		available++
	}
	effectiveMin := min(c.rules.MinContinueReadingLinks, max(1, available))
	if len(crLinks) < effectiveMin {
		p.rep.AddFixable("continue-reading", fmt.Sprintf("Continue Reading has %d link(s) (min %d)", len(crLinks), effectiveMin))
	}

	if p.hub != "" && !contread.Contains(crLinks, p.hub) {
		p.rep.AddFixable("continue-reading", fmt.Sprintf("Continue Reading missing hub link (%s)", p.hub))
	}

	if len(p.env.SiblingSlugs) > 0 {
		siblingCount := 0
		for _, s := range p.env.SiblingSlugs {
			for _, l := range crLinks {
				if strings.Contains(l.URL, s) {
					siblingCount++
					break
				}
			}
		}
		minSiblings := min(2, others)
		if siblingCount < minSiblings {
			p.rep.AddFixable("continue-reading", fmt.Sprintf("Continue Reading has %d sibling link(s) (min %d)", siblingCount, minSiblings))
		}
	}
}

func internalLinks(scan htmlscan.Scanner, content string) []htmlscan.Link {
	var out []htmlscan.Link
	for _, link := range scan.Links(content) {
		if strings.HasPrefix(link.Href, "/") {
			out = append(out, link)
		}
	}
	return out
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package qc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/contread"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/htmlscan"
	"ArticlePublisher/internal/links"
	"ArticlePublisher/internal/textrules"
)

func testRules() config.EditorialConfig {
	return config.EditorialConfig{
		BrandSuffix:             " | Cursed Tours",
		MaxTitleRaw:             50,
		MaxRenderedTitle:        65,
		MinTitle:                10,
		MaxExcerpt:              160,
		MinExcerpt:              50,
		MinWordsCluster:         5, // small fixtures
		MinWordsPillar:          30,
		MinBodyInternalLinks:    2,
		MinContinueReadingLinks: 3,
	}
}

func testResolver() *links.Resolver {
	return links.NewResolver(map[string]links.Category{
		"chicago-haunted-history": {Hub: "/chicago-ghost-tours/", Label: "Chicago Ghost Tours Hub"},
		"tour-planning":           {},
	}, "Ghost Tours Hub")
}

func testChecker() *Checker {
	return New(testRules(), textrules.DefaultMojibake(), htmlscan.NewPatternScanner(), testResolver())
}

func validArticle() *domain.Article {
	body := `<h2>After Dark</h2><p>Ghost stories from <a href="/articles/gallows-hill/">Gallows Hill</a>` +
		` and the <a href="/chicago-ghost-tours/">Chicago hub</a> with several more words of body.</p>`
	section := contread.Build([]contread.Link{
		{URL: "/chicago-ghost-tours/", Label: "Chicago Ghost Tours Hub"},
	})
	return &domain.Article{
		Title:        "Chicago Ghosts After Dark",
		Slug:         "chicago-ghosts-after-dark",
		Excerpt:      "The most haunted corners of Chicago, from theatre fires to hotel hauntings.",
		Content:      body + section,
		CategorySlug: "chicago-haunted-history",
		CategoryName: "Chicago Haunted History",
		ImageURL:     "https://img.example.com/chicago.jpg",
		ImageAlt:     "Fog over the Chicago river at night",
		Type:         domain.TypeCluster,
	}
}

func validEnv() Env {
	urls := links.BuildURLSet(links.BuildInput{Categories: testResolver().Categories()})
	urls.AddArticle("gallows-hill")
	urls.AddArticle("chicago-ghosts-after-dark")
	return Env{ValidURLs: urls}
}

func issuesForRule(issues []domain.Issue, rule string) []domain.Issue {
	var out []domain.Issue
	for _, issue := range issues {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

func TestCleanArticle(t *testing.T) {
	t.Parallel()

	rep := testChecker().Check(validArticle(), validEnv())
	assert.Empty(t, rep.Blocking)
	assert.Empty(t, rep.Fixable)
	assert.True(t, rep.Clean())
}

func TestCheckNeverMutates(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Slug = "My Slug//"
	a.Title = strings.Repeat("A", 80)
	before := *a
	testChecker().Check(a, validEnv())
	assert.Equal(t, before, *a)
}

func TestTitleBounds(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Title = "AAAAA"
	rep := testChecker().Check(a, validEnv())
	require.Len(t, issuesForRule(rep.Blocking, "title"), 1)
	assert.Contains(t, rep.Blocking[0].Message, "title too short")

	// Exactly the minimum raises nothing.
	a.Title = "ABCDEFGHIJ"
	rep = testChecker().Check(a, validEnv())
	assert.Empty(t, issuesForRule(rep.Blocking, "title"))
	assert.Empty(t, issuesForRule(rep.Fixable, "title"))

	// Over the rendered maximum is fixable, not blocking.
	a.Title = strings.Repeat("A", 60)
	rep = testChecker().Check(a, validEnv())
	assert.Empty(t, issuesForRule(rep.Blocking, "title"))
	require.Len(t, issuesForRule(rep.Fixable, "title"), 1)
}

func TestExcerptBounds(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Excerpt = "Too short."
	rep := testChecker().Check(a, validEnv())
	require.Len(t, issuesForRule(rep.Blocking, "excerpt"), 1)

	a.Excerpt = strings.Repeat("haunted ", 30) // 240 chars
	rep = testChecker().Check(a, validEnv())
	assert.Empty(t, issuesForRule(rep.Blocking, "excerpt"))
	require.Len(t, issuesForRule(rep.Fixable, "excerpt"), 1)
}

func TestSlugCleanupFixable(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Slug = "My Slug//"
	rep := testChecker().Check(a, validEnv())
	require.Len(t, issuesForRule(rep.Fixable, "slug"), 1)
}

func TestPersistedSlugCollision(t *testing.T) {
	t.Parallel()

	a := validArticle()
	env := validEnv()
	env.ExistingSlugs = map[string]bool{a.Slug: true}
	rep := testChecker().Check(a, env)
	require.Len(t, issuesForRule(rep.Blocking, "duplicate-slug"), 1)

	// The final QC pass runs without the persisted-slug set.
	env.ExistingSlugs = nil
	rep = testChecker().Check(a, env)
	assert.Empty(t, issuesForRule(rep.Blocking, "duplicate-slug"))
}

func TestUnregisteredCategoryBlocking(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.CategorySlug = "cryptid-sightings"
	rep := testChecker().Check(a, validEnv())
	require.Len(t, issuesForRule(rep.Blocking, "category"), 1)
	assert.Contains(t, rep.Blocking[0].Message, "cryptid-sightings")
}

func TestRequiredFieldsBlocking(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.ImageURL = ""
	a.ImageAlt = ""
	a.CategoryName = ""
	rep := testChecker().Check(a, validEnv())
	assert.Len(t, issuesForRule(rep.Blocking, "required-fields"), 3)
}

func TestNonAbsoluteImageURLBlocking(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.ImageURL = "/img/chicago.jpg"
	rep := testChecker().Check(a, validEnv())
	require.Len(t, issuesForRule(rep.Blocking, "image-url"), 1)
}

func TestContentDepthBlocking(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<p>tiny</p>`
	rep := testChecker().Check(a, validEnv())
	require.NotEmpty(t, issuesForRule(rep.Blocking, "depth"))

	// Pillar articles use the higher floor.
	b := validArticle()
	b.Type = domain.TypePillar
	rep = testChecker().Check(b, validEnv())
	require.Len(t, issuesForRule(rep.Blocking, "depth"), 1)
	assert.Contains(t, issuesForRule(rep.Blocking, "depth")[0].Message, "pillar")
}

func TestHeadingIssues(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<h1>Page Title Clash</h1><p>text</p><h2>Fine</h2><h4>Jumped</h4>` + a.Content
	rep := testChecker().Check(a, validEnv())

	headings := issuesForRule(rep.Fixable, "headings")
	require.Len(t, headings, 3)
	assert.Contains(t, headings[0].Message, "<h1>")
	assert.Contains(t, headings[1].Message, "first heading is <h1>")
	assert.Contains(t, headings[2].Message, "heading jump")
}

func TestMojibakeFlaggedPerField(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Title = "CafÃ© Macabre Tours"
	a.Excerpt += " Also featuring the cafÃ© on Rue Royale in the old quarter."
	a.Content += "<p>cafÃ©</p>"
	rep := testChecker().Check(a, validEnv())
	assert.Len(t, issuesForRule(rep.Fixable, "mojibake"), 3)
}

func TestExternalLinkSecurityFixable(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<p><a href="https://example.com/">one</a> and <a href="https://example.org/">two</a></p>` + a.Content
	rep := testChecker().Check(a, validEnv())
	// Reported once per article, not per link.
	assert.Len(t, issuesForRule(rep.Fixable, "external-links"), 1)
}

func TestEmptyAndDuplicateParagraphs(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("the same spooky paragraph body text ", 3)
	a := validArticle()
	a.Content = "<p>  </p><p></p><p>" + long + "</p><p>" + long + "</p>" + a.Content
	rep := testChecker().Check(a, validEnv())

	empty := issuesForRule(rep.Fixable, "empty-paragraphs")
	require.Len(t, empty, 1)
	assert.Contains(t, empty[0].Message, "2 empty")
	assert.Len(t, issuesForRule(rep.Fixable, "duplicate-paragraphs"), 1)
}

func TestInlineImageAltFixable(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<img src="/img/x.jpg">` + a.Content
	rep := testChecker().Check(a, validEnv())
	assert.Len(t, issuesForRule(rep.Fixable, "inline-images"), 1)

	b := validArticle()
	b.Content = `<img src="/img/x.jpg" alt="">` + b.Content
	rep = testChecker().Check(b, validEnv())
	assert.Len(t, issuesForRule(rep.Fixable, "inline-images"), 1)
}

func TestBodyLinkMinimum(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<p>No links in this body at all, just words and words.</p>` +
		contread.Build([]contread.Link{{URL: "/chicago-ghost-tours/", Label: "Hub"}})
	rep := testChecker().Check(a, validEnv())
	body := issuesForRule(rep.Fixable, "body-links")
	require.Len(t, body, 1)
	assert.Contains(t, body[0].Message, "0 internal link(s)")
}

func TestBrokenInternalLinks(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<p><a href="/articles/never-written/">ghost page</a></p>` + a.Content
	rep := testChecker().Check(a, validEnv())
	broken := issuesForRule(rep.Fixable, "broken-links")
	require.Len(t, broken, 1)
	assert.Contains(t, broken[0].Message, "/articles/never-written/")

	// Without a URL set the check is disabled.
	rep = testChecker().Check(a, Env{})
	assert.Empty(t, issuesForRule(rep.Fixable, "broken-links"))
}

func TestHubLink(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Content = `<p>Links to <a href="/articles/gallows-hill/">one</a> and <a href="/articles/gallows-hill/">again</a> only.</p>`
	rep := testChecker().Check(a, validEnv())
	assert.Len(t, issuesForRule(rep.Fixable, "hub-link"), 1)

	// A category without a hub never requires one.
	a.CategorySlug = "tour-planning"
	a.CategoryName = "Tour Planning"
	rep = testChecker().Check(a, validEnv())
	assert.Empty(t, issuesForRule(rep.Fixable, "hub-link"))

	// An explicit override reinstates the requirement.
	env := validEnv()
	env.HubOverride = "/salem-ghost-tours/"
	rep = testChecker().Check(a, env)
	assert.Len(t, issuesForRule(rep.Fixable, "hub-link"), 1)
}

func TestContinueReadingAdequacy(t *testing.T) {
	t.Parallel()

	// Missing section.
	a := validArticle()
	body, _ := contread.Split(a.Content)
	a.Content = body
	rep := testChecker().Check(a, validEnv())
	require.Len(t, issuesForRule(rep.Fixable, "continue-reading"), 1)
	assert.Contains(t, issuesForRule(rep.Fixable, "continue-reading")[0].Message, "no Continue Reading")

	// Section missing the hub link and the sibling minimum.
	b := validArticle()
	bBody, _ := contread.Split(b.Content)
	b.Content = bBody + contread.Build([]contread.Link{{URL: "/articles/elsewhere/", Label: "Elsewhere"}})
	env := validEnv()
	env.ValidURLs.AddArticle("elsewhere")
	env.SiblingSlugs = []string{b.Slug, "gallows-hill", "resurrection-mary"}
	rep = testChecker().Check(b, env)

	cr := issuesForRule(rep.Fixable, "continue-reading")
	require.Len(t, cr, 3)
	assert.Contains(t, cr[0].Message, "1 link(s) (min 3)")
	assert.Contains(t, cr[1].Message, "missing hub link")
	assert.Contains(t, cr[2].Message, "0 sibling link(s) (min 2)")
}

func TestContinueReadingEffectiveMinimumShrinks(t *testing.T) {
	t.Parallel()

	// Lone article with a hub: one hub link satisfies the effective minimum.
	rep := testChecker().Check(validArticle(), validEnv())
	assert.Empty(t, issuesForRule(rep.Fixable, "continue-reading"))
}

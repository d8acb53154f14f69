package editorial

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
	"ArticlePublisher/internal/qc"
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

func testFixer() *Fixer {
	return New(testRules(), textrules.DefaultMojibake(), testResolver())
}

func clusterArticle(slug, title string) *domain.Article {
	return &domain.Article{
		Title:        title,
		Slug:         slug,
		Excerpt:      "The most haunted corners of Chicago, from theatre fires to hotel hauntings.",
		Content:      `<h2>History</h2><p>Plenty of body words about the haunting itself.</p>`,
		CategorySlug: "chicago-haunted-history",
		CategoryName: "Chicago Haunted History",
		ImageURL:     "https://img.example.com/x.jpg",
		ImageAlt:     "Night fog",
		Type:         domain.TypeCluster,
	}
}

func TestTruncateTitleColonSubtitle(t *testing.T) {
	t.Parallel()

	f := testFixer()
	got := f.truncateTitle("Haunted Salem Walk: The Complete Visitor Planning Guide")
	assert.Equal(t, "Haunted Salem Walk", got)
}

func TestTruncateTitleDashClause(t *testing.T) {
	t.Parallel()

	f := testFixer()
	got := f.truncateTitle("Ghost Stories of the Old Quarter - A Walking History")
	assert.Equal(t, "Ghost Stories of the Old Quarter", got)
}

func TestTruncateTitleHardCut(t *testing.T) {
	t.Parallel()

	f := testFixer()
	got := f.truncateTitle("Incredibly Haunted Midwestern Destinations You Must Visit Tonight")
	assert.Equal(t, "Incredibly Haunted Midwestern Destinations You...", got)
	assert.LessOrEqual(t, len(got), testRules().MaxTitleRaw)
}

func TestTruncateExcerptWholeSentences(t *testing.T) {
	t.Parallel()

	s1 := strings.Repeat("a", 68) + "."
	s2 := strings.Repeat("b", 69) + "."
	s3 := strings.Repeat("c", 58) + "."

	f := testFixer()
	got := f.truncateExcerpt(s1 + " " + s2 + " " + s3)
	assert.Equal(t, s1+" "+s2, got)
}

func TestTruncateExcerptHardCut(t *testing.T) {
	t.Parallel()

	// A single sentence longer than the maximum forces the fallback cut.
	f := testFixer()
	got := f.truncateExcerpt(strings.Repeat("w", 199) + ".")
	assert.Equal(t, strings.Repeat("w", 159)+".", got)
}

func TestFixArticleSlugAndEmptyParagraphs(t *testing.T) {
	t.Parallel()

	a := clusterArticle("My Slug//", "Chicago Ghosts After Dark")
	a.Content = "<p>  </p>" + a.Content

	changes := testFixer().FixArticle(a, "")
	assert.Equal(t, "my-slug", a.Slug)
	assert.NotContains(t, a.Content, "<p>  </p>")
	assert.Contains(t, strings.Join(changes, "\n"), `slug: "My Slug//" -> "my-slug"`)
}

func TestHardenExternalLinks(t *testing.T) {
	t.Parallel()

	fixed, changed := HardenExternalLinks(`<p><a href="https://example.com/">archive</a></p>`)
	require.True(t, changed)
	assert.Contains(t, fixed, `rel="noopener noreferrer"`)
	assert.Contains(t, fixed, `target="_blank"`)

	// An existing rel is augmented, not replaced.
	fixed, changed = HardenExternalLinks(`<a href="https://example.com/" rel="noopener">x</a>`)
	require.True(t, changed)
	assert.Contains(t, fixed, `rel="noopener noreferrer"`)

	// Already-hardened links are untouched.
	_, changed = HardenExternalLinks(fixed)
	assert.False(t, changed)

	// Internal links never get the treatment.
	_, changed = HardenExternalLinks(`<a href="/articles/x/">x</a>`)
	assert.False(t, changed)
}

func TestDowngradeHeadings(t *testing.T) {
	t.Parallel()

	got := DowngradeHeadings(`<h1 class="big">Title</h1><h2>Keep</h2>`)
	assert.Equal(t, `<h2 class="big">Title</h2><h2>Keep</h2>`, got)
}

func TestFixBatchSynthesizesContinueReading(t *testing.T) {
	t.Parallel()

	a1 := clusterArticle("gallows-hill", "Gallows Hill at Night")
	a2 := clusterArticle("resurrection-mary", "RÃ©surrection Mary Legend")
	a3 := clusterArticle("hull-house", "Hull House Devil Baby")
	batch := []*domain.Article{a1, a2, a3}

	log := testFixer().FixBatch(batch, "")

	// The synthesized section lists siblings in batch order, then the hub,
	// using each sibling's post-fix title.
	want := contread.Build([]contread.Link{
		{URL: "/articles/resurrection-mary/", Label: "Résurrection Mary Legend"},
		{URL: "/articles/hull-house/", Label: "Hull House Devil Baby"},
		{URL: "/chicago-ghost-tours/", Label: "Chicago Ghost Tours Hub"},
	})
	assert.True(t, strings.HasSuffix(a1.Content, want), "got tail: %s", a1.Content)

	// Every article got a section; the garbled title was repaired in place.
	for _, a := range batch {
		_, section := contread.Split(a.Content)
		assert.NotEmpty(t, section, "slug %s", a.Slug)
	}
	assert.Equal(t, "Résurrection Mary Legend", a2.Title)
	assert.Len(t, log, 3)
}

func TestFixContinueReadingMergesHub(t *testing.T) {
	t.Parallel()

	a := clusterArticle("gallows-hill", "Gallows Hill at Night")
	a.Content += contread.Build([]contread.Link{
		{URL: "/articles/resurrection-mary/", Label: "Resurrection Mary"},
	})

	changes := testFixer().FixArticle(a, "")
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0], "injected hub link")

	_, section := contread.Split(a.Content)
	crLinks := contread.Extract(section)
	require.Len(t, crLinks, 2)
	assert.Equal(t, "/articles/resurrection-mary/", crLinks[0].URL)
	assert.Equal(t, "/chicago-ghost-tours/", crLinks[1].URL)
	assert.Equal(t, "Chicago Ghost Tours Hub", crLinks[1].Label)
}

func TestNoContinueReadingWithoutCandidates(t *testing.T) {
	t.Parallel()

	a := clusterArticle("lone-article", "A Lone Article Title")
	a.CategorySlug = "tour-planning" // no hub
	a.CategoryName = "Tour Planning"
	before := a.Content

	changes := testFixer().FixArticle(a, "")
	assert.Empty(t, changes)
	assert.Equal(t, before, a.Content)
}

func messyArticle() *domain.Article {
	a := clusterArticle("My Slug//", "Haunted Salem Walk: The Complete Visitor Planning Guide")
	s1 := strings.Repeat("a", 68) + "."
	s2 := strings.Repeat("b", 69) + "."
	s3 := strings.Repeat("c", 58) + "."
	a.Excerpt = s1 + " " + s2 + " " + s3
	a.Content = `<h1>CafÃ© Macabre</h1><p></p>` +
		`<p>Visit <a href="https://example.com/">the archive</a>, our ` +
		`<a href="/articles/gallows-hill/">Gallows Hill</a> guide, and the ` +
		`<a href="/chicago-ghost-tours/">hub</a> for more stories.</p>`
	return a
}

func cleanSibling() *domain.Article {
	a := clusterArticle("gallows-hill", "Gallows Hill at Night")
	a.Content = `<h2>History</h2><p>See the <a href="/articles/my-slug/">Salem walk</a> and the ` +
		`<a href="/chicago-ghost-tours/">hub</a> for the full story.</p>` +
		contread.Build([]contread.Link{
			{URL: "/articles/my-slug/", Label: "Haunted Salem Walk"},
			{URL: "/chicago-ghost-tours/", Label: "Chicago Ghost Tours Hub"},
		})
	return a
}

func TestFixBatchIdempotent(t *testing.T) {
	t.Parallel()

	batch := []*domain.Article{messyArticle(), cleanSibling()}
	first := testFixer().FixBatch(batch, "")
	require.Len(t, first, 1)
	assert.Equal(t, "my-slug", first[0].Slug) // logged under the post-fix slug

	snapshot := []domain.Article{*batch[0], *batch[1]}
	second := testFixer().FixBatch(batch, "")
	assert.Empty(t, second)
	assert.Equal(t, snapshot[0], *batch[0])
	assert.Equal(t, snapshot[1], *batch[1])
}

func TestFixedBatchPassesQC(t *testing.T) {
	t.Parallel()

	batch := []*domain.Article{messyArticle(), cleanSibling()}
	testFixer().FixBatch(batch, "")

	urls := links.BuildURLSet(links.BuildInput{Categories: testResolver().Categories()})
	siblings := make([]string, 0, len(batch))
	for _, a := range batch {
		urls.AddArticle(a.Slug)
		siblings = append(siblings, a.Slug)
	}

	checker := qc.New(testRules(), textrules.DefaultMojibake(), htmlscan.NewPatternScanner(), testResolver())
	for _, a := range batch {
		rep := checker.Check(a, qc.Env{SiblingSlugs: siblings, ValidURLs: urls})
		assert.Empty(t, rep.Fixable, "slug %s: %v", a.Slug, rep.Fixable)
		assert.Empty(t, rep.Blocking, "slug %s: %v", a.Slug, rep.Blocking)
	}
}

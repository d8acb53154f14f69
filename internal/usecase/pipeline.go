package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/contread"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/editorial"
	"ArticlePublisher/internal/links"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/qc"
	"ArticlePublisher/internal/textrules"
)

// State names a pipeline milestone.
type State string

const (
	StateCollected    State = "collected"
	StateQCChecked    State = "qc_checked"
	StateFixed        State = "fixed"
	StateFinalChecked State = "final_checked"
	StatePersisted    State = "persisted"
	StateAborted      State = "aborted"
)

// ErrBlockingIssues aborts a batch before any fix attempt: at least one
// article needs human content changes.
var ErrBlockingIssues = errors.New("batch has blocking issues")

// ErrUnresolvedIssues aborts a batch after fixing: the fix and QC engines
// disagree about a rule's satisfaction condition, or a fixable rule has no
// fix. Nothing was persisted.
var ErrUnresolvedIssues = errors.New("issues remain after editorial fixes")

// ArticleIssues pairs an offending slug with its issue list.
type ArticleIssues struct {
	Slug   string
	Issues []domain.Issue
}

// Result describes one pipeline invocation. Abort paths always carry the
// complete list of offending slugs and messages.
type Result struct {
	State      State
	BatchSize  int
	FirstPass  []ArticleIssues
	Unresolved []ArticleIssues
	FixLog     []domain.FixEntry
}

// PipelineDeps wires all collaborators into the orchestrator.
type PipelineDeps struct {
	Checker  *qc.Checker
	Fixer    *editorial.Fixer
	Mojibake *textrules.MojibakeTable
	Resolver *links.Resolver
	Store    ports.ArticleStore
	Site     config.SiteConfig
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Pipeline sequences QC, editorial fixing, final QC, and persistence over
// one batch, and hosts the audit/repair modes over the store.
type Pipeline struct {
	checker  *qc.Checker
	fixer    *editorial.Fixer
	mojibake *textrules.MojibakeTable
	resolver *links.Resolver
	store    ports.ArticleStore
	site     config.SiteConfig
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		checker:  deps.Checker,
		fixer:    deps.Fixer,
		mojibake: deps.Mojibake,
		resolver: deps.Resolver,
		store:    deps.Store,
		site:     deps.Site,
		notifier: deps.Notifier,
		logger:   logger,
	}
}

// Publish runs the full batch pipeline. The batch is atomic at the decision
// level: either every article reaches the store or none does.
func (p *Pipeline) Publish(ctx context.Context, batch []*domain.Article, hubOverride string) (Result, error) {
	result := Result{State: StateCollected, BatchSize: len(batch)}
	if len(batch) == 0 {
		result.State = StatePersisted
		return result, nil
	}

	// Reject in-batch slug collisions up front: two new articles normalizing
	// to the same slug is an editorial decision, not something to
	// auto-disambiguate.
	if dupes := batchSlugCollisions(batch); len(dupes) > 0 {
		result.State = StateAborted
		result.FirstPass = dupes
		return result, fmt.Errorf("%w: %d in-batch slug collision(s)", ErrBlockingIssues, len(dupes))
	}

	published, err := p.store.Slugs(ctx)
	if err != nil {
		return result, fmt.Errorf("list published slugs: %w", err)
	}
	existing := make(map[string]bool, len(published))
	for _, slug := range published {
		existing[slug] = true
	}

	urls := p.buildURLSet(published)
	for _, a := range batch {
		urls.AddArticle(a.Slug)
	}

	// Stage 1: QC over the whole batch.
	siblings := batchSlugs(batch)
	fixableTotal := 0
	for _, a := range batch {
		rep := p.checker.Check(a, qc.Env{
			HubOverride:   hubOverride,
			SiblingSlugs:  siblings,
			ValidURLs:     urls,
			ExistingSlugs: existing,
		})
		fixableTotal += len(rep.Fixable)
		if len(rep.Blocking) > 0 {
			result.FirstPass = append(result.FirstPass, ArticleIssues{Slug: a.Slug, Issues: rep.Blocking})
		}
	}
	result.State = StateQCChecked

	if len(result.FirstPass) > 0 {
		result.State = StateAborted
		p.logAborted("publish aborted on blocking issues", result.FirstPass)
		return result, fmt.Errorf("%w: %d article(s) affected", ErrBlockingIssues, len(result.FirstPass))
	}
	p.logger.Info("qc check passed", "articles", len(batch), "fixable", fixableTotal)

	// Stage 2: editorial fixes, in place.
	result.FixLog = p.fixer.FixBatch(batch, hubOverride)
	result.State = StateFixed
	for _, entry := range result.FixLog {
		for _, change := range entry.Changes {
			p.logger.Info("editorial fix", "slug", entry.Slug, "change", change)
		}
	}

	// Stage 3: final QC. Slugs may have changed; the persisted-slug
	// collision check already ran against the batch before fixing.
	siblings = batchSlugs(batch)
	for _, a := range batch {
		urls.AddArticle(a.Slug)
	}
	for _, a := range batch {
		rep := p.checker.Check(a, qc.Env{
			HubOverride:  hubOverride,
			SiblingSlugs: siblings,
			ValidURLs:    urls,
		})
		if !rep.Clean() {
			result.Unresolved = append(result.Unresolved, ArticleIssues{Slug: a.Slug, Issues: rep.All()})
		}
	}
	result.State = StateFinalChecked

	if len(result.Unresolved) > 0 {
		result.State = StateAborted
		p.logAborted("publish aborted on unresolved issues", result.Unresolved)
		return result, fmt.Errorf("%w: %d article(s) affected", ErrUnresolvedIssues, len(result.Unresolved))
	}

	// Stage 4: persist.
	for i, a := range batch {
		if err := p.store.Save(ctx, BuildRecord(a, i)); err != nil {
			return result, fmt.Errorf("persist article %s: %w", a.Slug, err)
		}
		p.logger.Info("article persisted", "slug", a.Slug, "words", textrules.WordCount(a.Content))
	}
	result.State = StatePersisted

	p.notify(ctx, fmt.Sprintf("Published %d article(s), %d editorial fix entrie(s).", len(batch), len(result.FixLog)))
	return result, nil
}

// Audit re-validates every persisted article and returns the offenders. It
// never writes.
func (p *Pipeline) Audit(ctx context.Context) ([]ArticleIssues, error) {
	records, err := p.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	published := make([]string, 0, len(records))
	for _, rec := range records {
		published = append(published, rec.Slug)
	}
	urls := p.buildURLSet(published)

	var offenders []ArticleIssues
	for _, rec := range records {
		a := rec.ToArticle()
		rep := p.checker.Check(&a, qc.Env{ValidURLs: urls})
		if !rep.Clean() {
			offenders = append(offenders, ArticleIssues{Slug: a.Slug, Issues: rep.All()})
		}
	}

	if len(offenders) > 0 {
		p.notify(ctx, fmt.Sprintf("Audit: %d of %d article(s) have issues.", len(offenders), len(records)))
	}
	return offenders, nil
}

// RepairHubLinks injects the missing hub link into the Continue Reading
// section of every persisted article that lacks one. Idempotent.
func (p *Pipeline) RepairHubLinks(ctx context.Context) (int, error) {
	records, err := p.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load articles: %w", err)
	}

	repaired := 0
	for _, rec := range records {
		hub := p.hubForRecord(rec)
		if hub == "" || strings.Contains(rec.Content, strings.TrimRight(hub, "/")) {
			continue
		}
		body, section := contread.Split(rec.Content)
		if section == "" {
			continue
		}
		crLinks := contread.Extract(section)
		crLinks = append(crLinks, contread.Link{URL: hub, Label: p.resolver.HubLabel(hub)})
		rec.Content = body + contread.Build(crLinks)
		if err := p.store.Save(ctx, rec); err != nil {
			return repaired, fmt.Errorf("save article %s: %w", rec.Slug, err)
		}
		p.logger.Info("hub link injected", "slug", rec.Slug, "hub", hub)
		repaired++
	}
	return repaired, nil
}

// RepairAll runs the content-level fixes (hub links, mojibake, external-link
// hardening, heading downgrade, empty paragraphs) across every persisted
// article.
func (p *Pipeline) RepairAll(ctx context.Context) (int, error) {
	records, err := p.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load articles: %w", err)
	}

	repaired := 0
	for _, rec := range records {
		var fixes []string

		if p.mojibake.Detect(rec.Content) {
			rec.Content = p.mojibake.Repair(rec.Content)
			fixes = append(fixes, "mojibake")
		}
		if p.mojibake.Detect(rec.Title) {
			rec.Title = p.mojibake.Repair(rec.Title)
			fixes = append(fixes, "title mojibake")
		}
		if p.mojibake.Detect(rec.Excerpt) {
			rec.Excerpt = p.mojibake.Repair(rec.Excerpt)
			fixes = append(fixes, "excerpt mojibake")
		}

		if hardened, changed := editorial.HardenExternalLinks(rec.Content); changed {
			rec.Content = hardened
			fixes = append(fixes, "external link security")
		}

		if strings.Contains(rec.Content, "<h1") {
			rec.Content = editorial.DowngradeHeadings(rec.Content)
			fixes = append(fixes, "h1 downgrade")
		}

		if cleaned, changed := editorial.RemoveEmptyParagraphs(rec.Content); changed {
			rec.Content = cleaned
			fixes = append(fixes, "empty <p>")
		}

		if hub := p.hubForRecord(rec); hub != "" && !strings.Contains(rec.Content, strings.TrimRight(hub, "/")) {
			body, section := contread.Split(rec.Content)
			if section != "" {
				crLinks := contread.Extract(section)
				crLinks = append(crLinks, contread.Link{URL: hub, Label: p.resolver.HubLabel(hub)})
				rec.Content = body + contread.Build(crLinks)
				fixes = append(fixes, "hub link")
			}
		}

		if len(fixes) == 0 {
			continue
		}
		if err := p.store.Save(ctx, rec); err != nil {
			return repaired, fmt.Errorf("save article %s: %w", rec.Slug, err)
		}
		p.logger.Info("article repaired", "slug", rec.Slug, "fixes", strings.Join(fixes, ", "))
		repaired++
	}
	return repaired, nil
}

// BuildRecord converts a finalized article into its persisted shape. The
// positional index seeds a synthetic id when the article carries none.
func BuildRecord(a *domain.Article, index int) domain.Record {
	id := a.ArticleID
	if id == 0 {
		id = 70000 + index
	}
	articleType := a.Type
	if articleType == "" {
		articleType = domain.TypeCluster
	}
	return domain.Record{
		Title:       a.Title,
		Slug:        a.Slug,
		ID:          id,
		Status:      "publish",
		PostType:    "post",
		URI:         "/articles/" + a.Slug + "/",
		Date:        a.Date,
		Modified:    a.Date,
		Content:     a.Content,
		Excerpt:     a.Excerpt,
		WordCount:   textrules.WordCount(a.Content),
		ArticleType: articleType,
		Categories: []domain.RecordCategory{{
			ID:          a.CategoryID,
			Slug:        a.CategorySlug,
			Name:        a.CategoryName,
			Description: a.CategoryDescription,
		}},
		PageType: "unassigned",
		FeaturedImage: domain.RecordImage{
			SourceURL: a.ImageURL,
			AltText:   a.ImageAlt,
		},
	}
}

func (p *Pipeline) buildURLSet(publishedSlugs []string) *links.URLSet {
	return links.BuildURLSet(links.BuildInput{
		PublishedSlugs: publishedSlugs,
		Categories:     p.resolver.Categories(),
		Destinations:   p.site.Destinations,
		Experiences:    p.site.Experiences,
		UtilityPages:   p.site.UtilityPages,
		ExtraPaths:     p.site.ExtraPaths,
	})
}

func (p *Pipeline) hubForRecord(rec domain.Record) string {
	if len(rec.Categories) == 0 {
		return ""
	}
	return p.resolver.HubFor(rec.Categories[0].Slug, "")
}

func (p *Pipeline) notify(ctx context.Context, digest string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishDigest(ctx, digest); err != nil {
		p.logger.Warn("notify failed", "error", err)
	}
}

func (p *Pipeline) logAborted(msg string, offenders []ArticleIssues) {
	for _, off := range offenders {
		for _, issue := range off.Issues {
			p.logger.Error(msg, "slug", off.Slug, "rule", issue.Rule, "issue", issue.Message)
		}
	}
}

func batchSlugs(batch []*domain.Article) []string {
	slugs := make([]string, len(batch))
	for i, a := range batch {
		slugs[i] = a.Slug
	}
	return slugs
}

func batchSlugCollisions(batch []*domain.Article) []ArticleIssues {
	seen := map[string]string{}
	var dupes []ArticleIssues
	for _, a := range batch {
		normalized := textrules.NormalizeSlug(a.Slug)
		if first, ok := seen[normalized]; ok {
			dupes = append(dupes, ArticleIssues{
				Slug: a.Slug,
				Issues: []domain.Issue{{
					Rule:    "duplicate-slug",
					Message: fmt.Sprintf("slug %q collides with batch sibling %q after normalization", a.Slug, first),
				}},
			})
			continue
		}
		seen[normalized] = a.Slug
	}
	return dupes
}

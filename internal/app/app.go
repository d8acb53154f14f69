package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/editorial"
	"ArticlePublisher/internal/htmlscan"
	"ArticlePublisher/internal/infrastructure/storage"
	"ArticlePublisher/internal/infrastructure/telegram"
	"ArticlePublisher/internal/links"
	"ArticlePublisher/internal/logging"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/qc"
	"ArticlePublisher/internal/textrules"
	"ArticlePublisher/internal/usecase"
)

// Application wires configuration to the pipeline and its collaborators.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	scan, err := htmlscan.DefaultRegistry().Resolve(cfg.Scanner)
	if err != nil {
		return nil, fmt.Errorf("configure scanner: %w", err)
	}

	resolver := links.NewResolver(categoryTable(cfg.Categories), cfg.DefaultHubLabel)
	mojibake := textrules.DefaultMojibake()

	store, err := buildStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Checker:  qc.New(cfg.Editorial, mojibake, scan, resolver),
		Fixer:    editorial.New(cfg.Editorial, mojibake, resolver),
		Mojibake: mojibake,
		Resolver: resolver,
		Store:    store,
		Site:     cfg.Site,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// batchFile is the publish input document: an optional hub override plus the
// articles to push through the pipeline together.
type batchFile struct {
	HubURL   string           `yaml:"hubUrl"`
	Articles []domain.Article `yaml:"articles"`
}

// Publish loads a batch file and runs the full pipeline over it.
func (a *Application) Publish(ctx context.Context, batchPath string) (usecase.Result, error) {
	raw, err := os.ReadFile(batchPath)
	if err != nil {
		return usecase.Result{}, fmt.Errorf("read batch file: %w", err)
	}

	var batch batchFile
	if err := yaml.Unmarshal(raw, &batch); err != nil {
		return usecase.Result{}, fmt.Errorf("parse batch file: %w", err)
	}

	articles := make([]*domain.Article, len(batch.Articles))
	now := time.Now().Format("2006-01-02 15:04:05")
	for i := range batch.Articles {
		art := batch.Articles[i]
		if art.Type == "" {
			art.Type = domain.TypeCluster
		}
		if art.Date == "" {
			art.Date = now
		}
		articles[i] = &art
	}

	return a.pipeline.Publish(ctx, articles, batch.HubURL)
}

// Audit re-validates every persisted article.
func (a *Application) Audit(ctx context.Context) ([]usecase.ArticleIssues, error) {
	return a.pipeline.Audit(ctx)
}

// RepairHubLinks injects missing hub links into persisted articles.
func (a *Application) RepairHubLinks(ctx context.Context) (int, error) {
	return a.pipeline.RepairHubLinks(ctx)
}

// RepairAll runs every content-level repair across persisted articles.
func (a *Application) RepairAll(ctx context.Context) (int, error) {
	return a.pipeline.RepairAll(ctx)
}

func buildStore(cfg config.StorageConfig) (ports.ArticleStore, error) {
	if cfg.PostgresDSN != "" {
		db, err := storage.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("configure store: %w", err)
		}
		return storage.NewPostgresStore(db), nil
	}
	return storage.NewFileStore(cfg.ArticlesDir), nil
}

func categoryTable(cfg map[string]config.CategoryConfig) map[string]links.Category {
	table := make(map[string]links.Category, len(cfg))
	for slug, cat := range cfg {
		table[slug] = links.Category{Hub: cat.Hub, Label: cat.Label}
	}
	return table
}

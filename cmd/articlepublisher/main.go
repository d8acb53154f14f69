package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"ArticlePublisher/internal/app"
	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/logging"
)

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Publish struct {
		Batch string `arg:"" help:"YAML batch file with the articles to publish"`
	} `cmd:"" help:"Run the full QC/fix/re-check pipeline over a batch and persist it"`

	Audit struct{} `cmd:"" default:"1" help:"Re-validate every persisted article (read-only)"`

	Repair struct{} `cmd:"" help:"Inject missing hub links into persisted articles"`

	FixAll struct{} `cmd:"" name:"fix-all" help:"Repair hub links, mojibake, link security, headings, and empty paragraphs across persisted articles"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg := config.Load()
	if CLI.Verbose {
		cfg.Logging.Level = "debug"
	}
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch kctx.Command() {
	case "publish <batch>":
		result, err := application.Publish(ctx, CLI.Publish.Batch)
		if err != nil {
			logger.Error("publish failed", "state", string(result.State), "error", err)
			os.Exit(1)
		}
		logger.Info("batch published", "articles", result.BatchSize, "fixed", len(result.FixLog))

	case "audit":
		offenders, err := application.Audit(ctx)
		if err != nil {
			logger.Error("audit failed", "error", err)
			os.Exit(1)
		}
		for _, off := range offenders {
			for _, issue := range off.Issues {
				fmt.Printf("%s: %s\n", off.Slug, issue.Message)
			}
		}
		if len(offenders) > 0 {
			logger.Error("audit found issues", "articles", len(offenders))
			os.Exit(1)
		}
		logger.Info("audit clean")

	case "repair":
		repaired, err := application.RepairHubLinks(ctx)
		if err != nil {
			logger.Error("repair failed", "error", err)
			os.Exit(1)
		}
		logger.Info("hub links repaired", "articles", repaired)

	case "fix-all":
		repaired, err := application.RepairAll(ctx)
		if err != nil {
			logger.Error("fix-all failed", "error", err)
			os.Exit(1)
		}
		logger.Info("articles repaired", "articles", repaired)
	}
}

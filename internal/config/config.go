package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "ARTICLE_PUBLISHER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	articlesDirEnv    = "ARTICLES_DIR"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging         LoggingConfig             `yaml:"logging"`
	Storage         StorageConfig             `yaml:"storage"`
	Scanner         string                    `yaml:"scanner"`
	Editorial       EditorialConfig           `yaml:"editorial"`
	Categories      map[string]CategoryConfig `yaml:"categories"`
	DefaultHubLabel string                    `yaml:"defaultHubLabel"`
	Site            SiteConfig                `yaml:"site"`
	Notifications   NotificationConfig        `yaml:"notifications"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects the article store. A non-empty DSN switches the
// store from the JSON directory to Postgres.
type StorageConfig struct {
	ArticlesDir string `yaml:"articlesDir"`
	PostgresDSN string `yaml:"postgresDsn"`
}

// EditorialConfig is the fixed editorial/SEO rulebook. Values are injected
// into the QC and fix engines at construction; they are not runtime-tunable
// beyond this file.
type EditorialConfig struct {
	BrandSuffix             string `yaml:"brandSuffix"`
	MaxTitleRaw             int    `yaml:"maxTitleRaw"`
	MaxRenderedTitle        int    `yaml:"maxRenderedTitle"`
	MinTitle                int    `yaml:"minTitle"`
	MaxExcerpt              int    `yaml:"maxExcerpt"`
	MinExcerpt              int    `yaml:"minExcerpt"`
	MinWordsCluster         int    `yaml:"minWordsCluster"`
	MinWordsPillar          int    `yaml:"minWordsPillar"`
	MinBodyInternalLinks    int    `yaml:"minBodyInternalLinks"`
	MinContinueReadingLinks int    `yaml:"minContinueReadingLinks"`
}

// CategoryConfig registers one category. An empty hub means the category
// intentionally has no hub page; a category missing from the map entirely is
// a blocking publication issue.
type CategoryConfig struct {
	Hub   string `yaml:"hub"`
	Label string `yaml:"label"`
}

// SiteConfig is the injected inventory of non-article site paths.
type SiteConfig struct {
	Destinations []string `yaml:"destinations"`
	Experiences  []string `yaml:"experiences"`
	UtilityPages []string `yaml:"utilityPages"`
	ExtraPaths   []string `yaml:"extraPaths"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.PostgresDSN = v
	}

	if v := os.Getenv(articlesDirEnv); v != "" {
		c.Storage.ArticlesDir = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Storage.ArticlesDir != "" {
		base.Storage.ArticlesDir = override.Storage.ArticlesDir
	}
	if override.Storage.PostgresDSN != "" {
		base.Storage.PostgresDSN = override.Storage.PostgresDSN
	}

	if override.Scanner != "" {
		base.Scanner = override.Scanner
	}

	if override.Editorial != (EditorialConfig{}) {
		base.Editorial = override.Editorial
	}

	if len(override.Categories) > 0 {
		base.Categories = override.Categories
	}
	if override.DefaultHubLabel != "" {
		base.DefaultHubLabel = override.DefaultHubLabel
	}

	if len(override.Site.Destinations) > 0 {
		base.Site.Destinations = override.Site.Destinations
	}
	if len(override.Site.Experiences) > 0 {
		base.Site.Experiences = override.Site.Experiences
	}
	if len(override.Site.UtilityPages) > 0 {
		base.Site.UtilityPages = override.Site.UtilityPages
	}
	if len(override.Site.ExtraPaths) > 0 {
		base.Site.ExtraPaths = override.Site.ExtraPaths
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Storage: StorageConfig{ArticlesDir: "src/data/articles"},
		Scanner: "pattern",
		Editorial: EditorialConfig{
			BrandSuffix:             " | Cursed Tours",
			MaxTitleRaw:             50,
			MaxRenderedTitle:        65,
			MinTitle:                10,
			MaxExcerpt:              160,
			MinExcerpt:              50,
			MinWordsCluster:         500,
			MinWordsPillar:          1200,
			MinBodyInternalLinks:    2,
			MinContinueReadingLinks: 3,
		},
		Categories: map[string]CategoryConfig{
			"salem-witch-trials":                 {Hub: "/salem-ghost-tours/", Label: "Salem Ghost Tours Hub"},
			"new-orleans-voodoo-haunted-history": {Hub: "/new-orleans-ghost-tours/", Label: "New Orleans Ghost Tours Hub"},
			"chicago-haunted-history":            {Hub: "/chicago-ghost-tours/", Label: "Chicago Ghost Tours Hub"},
			"dracula-gothic-literature":          {Hub: "/destinations/draculas-castle/", Label: "Dracula's Castle"},
			"tour-planning":                      {},
		},
		DefaultHubLabel: "Ghost Tours Hub",
		Site: SiteConfig{
			Destinations: []string{"draculas-castle"},
			Experiences:  []string{"cemetery-tours", "paranormal-investigations", "pub-crawls", "true-crime", "walking-tours"},
			UtilityPages: []string{"about", "contact", "editorial-policy", "privacy-policy", "terms"},
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
	}
}

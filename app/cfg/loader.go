package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"sentinova" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"sentinova" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"sentinova" description:"Database name"`

	// News provider configuration
	NewsAPIURL      string `long:"newsapi-url" env:"NEWSAPI_URL" default:"https://newsapi.org/v2/top-headlines" description:"News provider endpoint"`
	NewsAPIKey      string `long:"newsapi-key" env:"NEWSAPI_KEY" description:"News provider API key (polling is skipped without it)"`
	NewsAPIPageSize int    `long:"newsapi-page-size" env:"NEWSAPI_PAGE_SIZE" default:"20" description:"Articles requested per provider page"`

	// Ingestion configuration
	PollingEnabled      bool   `long:"polling-enabled" env:"POLLING_ENABLED" default:"true" description:"Enable the periodic ingestion cycle"`
	PollIntervalMs      int    `long:"poll-interval-ms" env:"POLL_INTERVAL_MS" default:"45000" description:"Ingestion cycle interval in milliseconds"`
	MaxArticlesPerCycle int    `long:"max-articles-per-cycle" env:"MAX_ARTICLES_PER_CYCLE" default:"50" description:"Maximum articles processed per ingestion cycle"`
	SourcesDir          string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing RSS source configuration files"`
	ExtractContent      bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Enable full-text extraction for truncated articles"`

	// Sentiment configuration
	SentimentEngine string `long:"sentiment-engine" env:"SENTIMENT_ENGINE" default:"lexicon" choice:"lexicon" choice:"keyword" description:"Sentiment analyzer implementation"`

	// Application configuration
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for ingestion tasks"`
	RedisAddr   string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the image proxy cache (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Sentinova/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:              raw.DBHost,
		DBPort:              raw.DBPort,
		DBUser:              raw.DBUser,
		DBPassword:          raw.DBPassword,
		DBName:              raw.DBName,
		NewsAPIURL:          raw.NewsAPIURL,
		NewsAPIKey:          raw.NewsAPIKey,
		NewsAPIPageSize:     raw.NewsAPIPageSize,
		PollingEnabled:      raw.PollingEnabled,
		PollIntervalMs:      raw.PollIntervalMs,
		MaxArticlesPerCycle: raw.MaxArticlesPerCycle,
		SourcesDir:          raw.SourcesDir,
		ExtractContent:      raw.ExtractContent,
		SentimentEngine:     raw.SentimentEngine,
		Port:                raw.Port,
		WorkerCount:         raw.WorkerCount,
		RedisAddr:           raw.RedisAddr,
		UserAgent:           raw.UserAgent,
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

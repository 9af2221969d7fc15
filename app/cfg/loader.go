package cfg

import (
	"fmt"
	"time"

	"github.com/fastinfo/newsboy/app/internal/cmp"
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
	DBUser     string `long:"db-user" env:"DB_USER" default:"newsboy" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"newsboy" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"newsboy" description:"Database name"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for source processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"30" description:"Scheduler interval in seconds"`
	DefaultLimit      int    `long:"default-limit" env:"DEFAULT_LIMIT" default:"10" description:"Default result count for article queries"`
	MaxLimit          int    `long:"max-limit" env:"MAX_LIMIT" default:"100" description:"Maximum allowed result count for article queries"`
	DigestSize        int    `long:"digest-size" env:"DIGEST_SIZE" default:"20" description:"Maximum number of articles in the daily digest"`

	// Response cache
	RedisAddr       string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for response caching (optional, e.g. localhost:6379)"`
	CacheTTLSeconds int    `long:"cache-ttl" env:"CACHE_TTL" default:"60" description:"Response cache TTL in seconds"`

	// AI summarization
	LLMBaseURL string `long:"llm-base-url" env:"LLM_BASE_URL" description:"OpenAI-compatible API base URL for article summarization (optional)"`
	LLMAPIKey  string `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the summarization endpoint"`
	LLMModel   string `long:"llm-model" env:"LLM_MODEL" description:"Model name for the summarization endpoint"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsboy/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for date windows and timestamps (e.g., UTC, America/New_York)"`
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
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		DefaultLimit:      raw.DefaultLimit,
		MaxLimit:          raw.MaxLimit,
		DigestSize:        raw.DigestSize,
		RedisAddr:         raw.RedisAddr,
		CacheTTLSeconds:   raw.CacheTTLSeconds,
		LLMBaseURL:        raw.LLMBaseURL,
		LLMAPIKey:         raw.LLMAPIKey,
		LLMModel:          raw.LLMModel,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
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

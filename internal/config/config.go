package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Estimation.
	CatalogPath string
	RoofFormula string

	// Hail history store. Empty DatabaseURL disables history and monitoring.
	DatabaseURL     string
	DatabaseMigrate bool

	// Text-generation model.
	GeminiAPIKey       string
	GeminiModel        string
	LLMTimeout         time.Duration
	LLMSearchGrounding bool

	// Periodic monitor. Zero interval disables the schedule.
	MonitorInterval time.Duration
	MonitorLookback time.Duration

	// Optional publication of inserted events. Empty brokers disables it.
	KafkaBrokers []string
	KafkaTopic   string

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Optional estimate archive.
	DynamoDBEnabled  bool
	EstimatesTable   string
	AWSRegion        string
	DynamoDBEndpoint string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := parseDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return d
	}
	boolean := func(key string, def bool) bool {
		b, err := parseBool(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return b
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogPath: os.Getenv("CATALOG_PATH"),
		RoofFormula: strings.ToLower(sharedcfg.EnvOrDefault("ROOF_FORMULA", "advanced")),

		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DatabaseMigrate: boolean("DATABASE_MIGRATE", true),

		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        sharedcfg.EnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		LLMTimeout:         duration("LLM_TIMEOUT", "60s"),
		LLMSearchGrounding: boolean("LLM_SEARCH_GROUNDING", true),

		MonitorInterval: duration("MONITOR_INTERVAL", "0s"),
		MonitorLookback: duration("MONITOR_LOOKBACK", "24h"),

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "hail-events"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   boolean("MAPBOX_ENABLED", mapboxToken != ""),
		MapboxTimeout:   duration("MAPBOX_TIMEOUT", "5s"),
		MapboxCacheSize: parseCacheSize(),

		DynamoDBEnabled:  boolean("DYNAMODB_ENABLED", false),
		EstimatesTable:   sharedcfg.EnvOrDefault("ESTIMATES_TABLE", "estimates"),
		AWSRegion:        sharedcfg.EnvOrDefault("AWS_REGION", "us-east-1"),
		DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.LLMTimeout <= 0 {
		return nil, errors.New("invalid LLM_TIMEOUT")
	}
	if cfg.MapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}
	if cfg.MonitorInterval < 0 {
		return nil, errors.New("invalid MONITOR_INTERVAL")
	}
	if cfg.MonitorLookback <= 0 {
		return nil, errors.New("invalid MONITOR_LOOKBACK")
	}
	if cfg.RoofFormula != "advanced" && cfg.RoofFormula != "basic" {
		return nil, fmt.Errorf("invalid ROOF_FORMULA %q: want advanced or basic", cfg.RoofFormula)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.DynamoDBEnabled && cfg.EstimatesTable == "" {
		return nil, errors.New("ESTIMATES_TABLE is required when DYNAMODB_ENABLED is true")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

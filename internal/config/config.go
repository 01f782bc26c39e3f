package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Feed is one resort served by a JSON feed.
type Feed struct {
	Name string `validate:"required"`
	URL  string `validate:"required,url"`
}

type AppConfig struct {
	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`

	// RefreshInterval controls how often a refresh cycle runs.
	// RefreshCron, when set, replaces it.
	RefreshInterval time.Duration `validate:"min=1m"`
	RefreshCron     string

	SourceTimeout   time.Duration `validate:"gt=0"`
	ForecastTimeout time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`

	Feeds []Feed `validate:"min=1,dive"`

	OpenMeteoTimezone string `validate:"required"`
	GeocoderAPIKey    string

	// OutputFile is where the ranked artifact is written; empty disables it.
	OutputFile string

	KafkaBrokers []string
	KafkaTopic   string `validate:"required_with=KafkaBrokers"`
}

var validate = validator.New()

// Load reads configuration from the given .env files (".env" when none are
// given) and the environment, with sensible defaults.
func Load(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}
	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		LogLevel:          strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		RefreshCron:       os.Getenv("REFRESH_CRON"),
		OpenMeteoTimezone: getenvDefault("OPENMETEO_TIMEZONE", "America/Vancouver"),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		OutputFile:        getenvDefault("OUTPUT_FILE", "data/resorts.json"),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getenvDefault("KAFKA_TOPIC", "snowdesk-resorts"),
	}
	if v, ok := os.LookupEnv("OUTPUT_FILE"); ok && v == "" {
		cfg.OutputFile = ""
	}

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SourceTimeout, err = getenvDuration("SOURCE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ForecastTimeout, err = getenvDuration("FORECAST_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.Feeds, err = parseFeeds(os.Getenv("RESORT_FEEDS")); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseFeeds reads "Name=URL,Name=URL". Names may contain spaces and dots.
func parseFeeds(raw string) ([]Feed, error) {
	var feeds []Feed
	seen := map[string]bool{}
	for _, item := range splitList(raw) {
		name, url, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid RESORT_FEEDS entry %q: want Name=URL", item)
		}
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if seen[name] {
			return nil, fmt.Errorf("invalid RESORT_FEEDS: resort %q listed twice", name)
		}
		seen[name] = true
		feeds = append(feeds, Feed{Name: name, URL: url})
	}
	return feeds, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/disaster-watch/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Fetch cycle scheduling. SourceDelay is the pause between sequential
	// source calls, there to respect third-party rate limits.
	FetchInterval time.Duration
	SourceDelay   time.Duration

	// Watched location: ZIP or lat/lon, plus the state for the federal feed.
	Watch domain.Location

	// Weather feed.
	OpenWeatherAPIKey string
	GeocodeCacheSize  int
	SourceTimeout     time.Duration

	// AI assessment collaborator. Enabled when AssessURL is set.
	AssessURL     string
	AssessTimeout time.Duration

	// Notification sink. The sink is disabled when the topic is empty.
	KafkaBrokers      []string
	NotificationTopic string

	// Fallback classifier constants. Defaults preserve the original
	// operational values; see domain.DefaultThresholds.
	HighWindMPH      float64
	ExtremeHeatF     float64
	DeclarationLimit int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchInterval, err := parsePositiveDuration("FETCH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	sourceDelay, err := parseNonNegativeDuration("SOURCE_DELAY", "1s")
	if err != nil {
		return nil, err
	}
	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	assessTimeout, err := parsePositiveDuration("ASSESS_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	watch, err := parseWatchLocation()
	if err != nil {
		return nil, err
	}

	th := domain.DefaultThresholds()

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FetchInterval: fetchInterval,
		SourceDelay:   sourceDelay,

		Watch: watch,

		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		GeocodeCacheSize:  parseIntOrDefault("GEOCODE_CACHE_SIZE", 1000),
		SourceTimeout:     sourceTimeout,

		AssessURL:     os.Getenv("ASSESS_URL"),
		AssessTimeout: assessTimeout,

		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		NotificationTopic: os.Getenv("NOTIFICATION_TOPIC"),

		HighWindMPH:      parseFloatOrDefault("HIGH_WIND_MPH", th.HighWindMPH),
		ExtremeHeatF:     parseFloatOrDefault("EXTREME_HEAT_F", th.ExtremeHeatF),
		DeclarationLimit: parseIntOrDefault("DECLARATION_LIMIT", 5),
	}

	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}
	if cfg.NotificationTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("NOTIFICATION_TOPIC is set but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// Thresholds returns the classifier constants as a domain value.
func (c *Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{HighWindMPH: c.HighWindMPH, ExtremeHeatF: c.ExtremeHeatF}
}

// parseWatchLocation requires either WATCH_ZIP or a WATCH_LAT/WATCH_LON
// pair. WATCH_STATE is optional; without it the federal feed is skipped.
func parseWatchLocation() (domain.Location, error) {
	loc := domain.Location{
		ZIP:   os.Getenv("WATCH_ZIP"),
		State: os.Getenv("WATCH_STATE"),
	}

	latStr, lonStr := os.Getenv("WATCH_LAT"), os.Getenv("WATCH_LON")
	if (latStr == "") != (lonStr == "") {
		return domain.Location{}, errors.New("WATCH_LAT and WATCH_LON must be set together")
	}
	if latStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			return domain.Location{}, errors.New("invalid WATCH_LAT or WATCH_LON")
		}
		loc.Geo = &domain.Geo{Lat: lat, Lon: lon}
	}

	if loc.ZIP == "" && loc.Geo == nil {
		return domain.Location{}, errors.New("either WATCH_ZIP or WATCH_LAT/WATCH_LON is required")
	}
	return loc, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseNonNegativeDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseIntOrDefault(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseFloatOrDefault(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return def
}

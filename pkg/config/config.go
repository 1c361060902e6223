package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the service configuration loaded from the environment.
type Config struct {
	ListenAddress string `validate:"required"`
	Env           string `validate:"oneof=development production test"`
	LogLevel      string `validate:"oneof=trace debug info warn error"`
	Country       string `validate:"required,len=2"`

	BackendURL string `validate:"omitempty,url"`
	Redis      RedisConfig
	RabbitURL  string `validate:"omitempty,url"`

	Catalog CatalogConfig
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int `validate:"gte=0"`
}

// CatalogConfig tunes the browsing engine and the hosted views.
type CatalogConfig struct {
	PageSize        int           `validate:"gte=1,lte=200"`
	DebounceWindow  time.Duration `validate:"gte=0"`
	AnnounceWindow  time.Duration `validate:"gte=0"`
	SwipeThreshold  float64       `validate:"gt=0"`
	CacheTTL        time.Duration `validate:"gte=0"`
	FetchTimeout    time.Duration `validate:"gt=0"`
	ViewIdleTimeout time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads .env when present and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddress: getEnv("LISTEN_ADDRESS", ":8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Country:       getEnv("COUNTRY", "se"),
		BackendURL:    getEnv("BACKEND_URL", ""),
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RabbitURL: getEnv("RABBIT_URL", ""),
		Catalog: CatalogConfig{
			PageSize:       getEnvInt("PAGE_SIZE", 12),
			SwipeThreshold: getEnvFloat("SWIPE_THRESHOLD", 80),
		},
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"DEBOUNCE_WINDOW", "300ms", &cfg.Catalog.DebounceWindow},
		{"ANNOUNCE_WINDOW", "750ms", &cfg.Catalog.AnnounceWindow},
		{"CACHE_TTL", "5m", &cfg.Catalog.CacheTTL},
		{"FETCH_TIMEOUT", "5s", &cfg.Catalog.FetchTimeout},
		{"VIEW_IDLE_TIMEOUT", "30m", &cfg.Catalog.ViewIdleTimeout},
	}
	for _, d := range durations {
		v, err := getEnvDuration(d.key, d.def)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	i, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

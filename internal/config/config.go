package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Routing  RoutingConfig  `yaml:"routing"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Listing  ListingConfig  `yaml:"listing"`
	Map      MapConfig      `yaml:"map"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type UpstreamConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RoutingConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Profile  string        `yaml:"profile"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name"`
}

type ListingConfig struct {
	DefaultPerPage int `yaml:"default_per_page"`
	MapPerPage     int `yaml:"map_per_page"`
}

type MapConfig struct {
	UnitColors   map[int64]string `yaml:"unit_colors"`
	DefaultColor string           `yaml:"default_color"`
}

func Default() Config {
	return Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:         ":3000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Log: LogConfig{Level: "debug"},
		Upstream: UpstreamConfig{
			BaseURL: "http://localhost:8004/api",
			Timeout: 10 * time.Second,
		},
		Routing: RoutingConfig{
			BaseURL:  "https://router.project-osrm.org",
			Profile:  "driving",
			Timeout:  8 * time.Second,
			CacheTTL: 6 * time.Hour,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB:   0,
		},
		Session: SessionConfig{
			CookieName: "access_token",
		},
		Listing: ListingConfig{
			DefaultPerPage: 5,
			MapPerPage:     100,
		},
		Map: MapConfig{
			UnitColors: map[int64]string{
				1: "#2563eb",
				2: "#16a34a",
				3: "#dc2626",
				4: "#7c3aed",
			},
			DefaultColor: "#0f172a",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Env == "prod" && cfg.Upstream.BaseURL == Default().Upstream.BaseURL {
		return Config{}, fmt.Errorf("upstream.base_url must be set in production")
	}

	return cfg, nil
}

// SecureCookies reports whether session cookies must carry the Secure flag.
// Dev keeps it off so the console works over plain http.
func (c Config) SecureCookies() bool {
	return c.Env == "prod"
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if err := overrideDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout); err != nil {
		return err
	}
	if err := overrideDuration("HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("API_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if err := overrideDuration("API_TIMEOUT", &cfg.Upstream.Timeout); err != nil {
		return err
	}

	if v := os.Getenv("ROUTING_URL"); v != "" {
		cfg.Routing.BaseURL = v
	}
	if v := os.Getenv("ROUTING_PROFILE"); v != "" {
		cfg.Routing.Profile = v
	}
	if err := overrideDuration("ROUTING_TIMEOUT", &cfg.Routing.Timeout); err != nil {
		return err
	}
	if err := overrideDuration("ROUTING_CACHE_TTL", &cfg.Routing.CacheTTL); err != nil {
		return err
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if err := overrideInt("REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}

	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.Session.CookieName = v
	}

	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

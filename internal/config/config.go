package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// EnvConfig holds configuration read from the environment (optionally seeded
// from a .env file). Field names match the variable names.
type EnvConfig struct {
	APP_PORT      string
	LOG_FILE_PATH string
	LOG_LEVEL     string

	DB_HOST              string
	DB_PORT              string
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	JWT_SECRET string

	// SERVER_CONFIG_PATH points at the optional YAML tuning file.
	SERVER_CONFIG_PATH string
}

// ServerConfig is the optional YAML tuning file. Everything has a default;
// the file only overrides.
type ServerConfig struct {
	CORSOrigins    []string      `yaml:"cors_origins"`
	PingInterval   time.Duration `yaml:"-"`
	TokenTTL       time.Duration `yaml:"-"`
	ReadBufferSize int           `yaml:"read_buffer_size"`

	// Duration strings from the YAML file ("30s", "24h"); parsed into the
	// fields above on load.
	RawPingInterval string `yaml:"ping_interval"`
	RawTokenTTL     string `yaml:"token_ttl"`
}

var DefaultEnvConfig EnvConfig

// LoadEnvConfig reads .env (when present) and the process environment into
// DefaultEnvConfig.
func LoadEnvConfig() error {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	DefaultEnvConfig = EnvConfig{
		APP_PORT:           getEnv("APP_PORT", "8080"),
		LOG_FILE_PATH:      os.Getenv("LOG_FILE_PATH"),
		LOG_LEVEL:          getEnv("LOG_LEVEL", "info"),
		DB_HOST:            getEnv("DB_HOST", "localhost"),
		DB_PORT:            getEnv("DB_PORT", "5432"),
		DB_USER:            getEnv("DB_USER", "postgres"),
		DB_PASSWORD:        os.Getenv("DB_PASSWORD"),
		DB_NAME:            getEnv("DB_NAME", "synergysphere"),
		DB_SSL_MODE:        getEnv("DB_SSL_MODE", "disable"),
		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		SERVER_CONFIG_PATH: os.Getenv("SERVER_CONFIG_PATH"),
	}

	var err error
	if DefaultEnvConfig.DB_MAX_OPEN_CONNS, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return err
	}
	if DefaultEnvConfig.DB_MAX_IDLE_CONNS, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return err
	}
	lifetimeMin, err := getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	if err != nil {
		return err
	}
	DefaultEnvConfig.DB_CONN_MAX_LIFETIME = time.Duration(lifetimeMin) * time.Minute

	if DefaultEnvConfig.JWT_SECRET == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	return nil
}

// LoadServerConfig returns defaults overlaid with the YAML file at path,
// when path is non-empty and the file exists.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := &ServerConfig{
		CORSOrigins:    []string{"*"},
		PingInterval:   30 * time.Second,
		TokenTTL:       24 * time.Hour,
		ReadBufferSize: 1024,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading server config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing server config %s: %w", path, err)
	}
	if cfg.RawPingInterval != "" {
		if cfg.PingInterval, err = time.ParseDuration(cfg.RawPingInterval); err != nil {
			return nil, fmt.Errorf("parsing ping_interval: %w", err)
		}
	}
	if cfg.RawTokenTTL != "" {
		if cfg.TokenTTL, err = time.ParseDuration(cfg.RawTokenTTL); err != nil {
			return nil, fmt.Errorf("parsing token_ttl: %w", err)
		}
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

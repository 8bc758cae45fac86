package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config holds the immutable settings loaded at startup
type Config struct {
	Port                string   `yaml:"port"`
	Env                 string   `yaml:"env"`
	DatabaseURL         string   `yaml:"database_url"`
	SecretKey           string   `yaml:"secret_key"`
	AccessTokenMinutes  int      `yaml:"access_token_expire_minutes"`
	RefreshTokenDays    int      `yaml:"refresh_token_expire_days"`
	AllowedOrigins      []string `yaml:"allowed_origins"`
	ArxivAPIBase        string   `yaml:"arxiv_api_base"`
	ArxivRateLimitDelay int      `yaml:"arxiv_rate_limit_delay"` // seconds
	CookieSecure        bool     `yaml:"cookie_secure"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:                "8000",
		Env:                 "development",
		DatabaseURL:         "sqlite:///./paperswipe.db",
		SecretKey:           "dev-secret-key-change-in-production-12345678",
		AccessTokenMinutes:  15,
		RefreshTokenDays:    7,
		AllowedOrigins:      []string{"http://localhost:5173", "http://localhost:3000"},
		ArxivAPIBase:        "https://export.arxiv.org/api/query",
		ArxivRateLimitDelay: 3,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and finally environment variables (a .env file is honoured).
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			log.Printf("[CONFIG] Ignoring %s: %v", path, err)
		} else {
			log.Printf("[CONFIG] Loaded configuration from %s", path)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.AccessTokenMinutes = getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", cfg.AccessTokenMinutes)
	cfg.RefreshTokenDays = getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", cfg.RefreshTokenDays)
	cfg.AllowedOrigins = getEnvList("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.ArxivAPIBase = getEnv("ARXIV_API_BASE", cfg.ArxivAPIBase)
	cfg.ArxivRateLimitDelay = getEnvInt("ARXIV_RATE_LIMIT_DELAY", cfg.ArxivRateLimitDelay)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.CookieSecure)

	log.Printf("[CONFIG] - Env: %s", cfg.Env)
	log.Printf("[CONFIG] - Port: %s", cfg.Port)
	log.Printf("[CONFIG] - Allowed origins: %d", len(cfg.AllowedOrigins))

	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// AccessTokenTTL returns the access token lifetime
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenDays) * 24 * time.Hour
}

// ArxivDelay returns the pause enforced after every arXiv call
func (c *Config) ArxivDelay() time.Duration {
	return time.Duration(c.ArxivRateLimitDelay) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[CONFIG] %s=%q is not an integer, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

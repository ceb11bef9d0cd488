package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	DatabaseURL string
	AppEnv      string
	BaseURL     string

	// Admin access
	AdminPassword      string
	SessionSecret      string
	AdminEmails        []string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AdminURL           string

	// Public submissions
	RedisURL        string
	RateLimitMax    int
	RateLimitWindow time.Duration

	ExpirySweepSpec string // empty disables the sweep
}

// IsProduction reports whether cookies must be marked Secure
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then the
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	file, err := readFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	get := func(key, fallback string) string {
		return getEnv(file, key, fallback)
	}

	cfg := &Config{
		Port:               get("PORT", "8080"),
		DatabaseURL:        get("DATABASE_URL", "file:jobs.db?_pragma=busy_timeout(5000)"),
		AppEnv:             get("APP_ENV", "local"),
		BaseURL:            strings.TrimRight(get("BASE_URL", "http://localhost:8080"), "/"),
		AdminPassword:      get("ADMIN_PASSWORD", ""),
		SessionSecret:      get("SESSION_SECRET", ""),
		AdminEmails:        splitList(get("ADMIN_EMAILS", "")),
		GoogleClientID:     get("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  get("GOOGLE_REDIRECT_URL", "http://localhost:8080/admin/auth/google/callback"),
		AdminURL:           get("ADMIN_URL", "http://localhost:8080/admin"),
		RedisURL:           get("REDIS_URL", ""),
		ExpirySweepSpec:    get("EXPIRY_SWEEP_SPEC", "@hourly"),
	}

	if cfg.RateLimitMax, err = strconv.Atoi(get("RATE_LIMIT_MAX", "5")); err != nil || cfg.RateLimitMax < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX must be a positive integer")
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(get("RATE_LIMIT_WINDOW", "1h")); err != nil || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be a positive duration")
	}

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("SESSION_SECRET is required in production")
		}
		log.Println("[config] SESSION_SECRET not set, using an insecure development secret")
		cfg.SessionSecret = "dev-secret"
	}

	return cfg, nil
}

// readFile loads a flat YAML mapping of setting name to value. Keys are
// matched case-insensitively against the environment variable names.
func readFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			continue
		case []interface{}:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = fmt.Sprint(item)
			}
			values[strings.ToUpper(k)] = strings.Join(parts, ",")
		default:
			values[strings.ToUpper(k)] = fmt.Sprint(v)
		}
	}
	return values, nil
}

func getEnv(file map[string]string, key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := file[key]; exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost     string
	HTTPPort     string
	MySQLDSN     string
	RedisAddr    string
	ClientURL    string
	CookieDomain string
	LogLevel     string
	LogFormat    string
	JWT          JWTConfig
	Hash         HashConfig
	SMTP         SMTPConfig
	Location     LocationConfig
	Google       GoogleConfig
}

// JWTKey holds the signing secret and lifetime for one token kind.
type JWTKey struct {
	Secret string
	TTL    time.Duration
}

type JWTConfig struct {
	Access  JWTKey
	Refresh JWTKey
	Reset   JWTKey
	Confirm JWTKey
}

type HashConfig struct {
	SaltRounds int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type LocationConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

type GoogleConfig struct {
	ClientID string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN environment variable is required")
	}

	jwt, err := loadJWTConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPHost:     getEnv("HTTP_HOST", ""),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		MySQLDSN:     mysqlDSN,
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		ClientURL:    getEnv("CLIENT_URL", "http://localhost:3000"),
		CookieDomain: getEnv("COOKIE_DOMAIN", "localhost"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		JWT:          jwt,
		Hash: HashConfig{
			SaltRounds: getIntEnv("HASH_SALT_ROUNDS", 10),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getIntEnv("SMTP_PORT", 587),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     getEnv("MAIL_FROM", "Space2Study <noreply@space2study.net>"),
		},
		Location: LocationConfig{
			APIKey:   os.Getenv("COUNTRYSTATECITY_API_KEY"),
			BaseURL:  getEnv("COUNTRYSTATECITY_BASE_URL", "https://api.countrystatecity.in/v1"),
			CacheTTL: getDurationEnv("LOCATION_CACHE_TTL", 24*time.Hour),
		},
		Google: GoogleConfig{
			ClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func loadJWTConfig() (JWTConfig, error) {
	var cfg JWTConfig

	kinds := []struct {
		name       string
		defaultTTL time.Duration
		key        *JWTKey
	}{
		{"ACCESS", 15 * time.Minute, &cfg.Access},
		{"REFRESH", 7 * 24 * time.Hour, &cfg.Refresh},
		{"RESET", time.Hour, &cfg.Reset},
		{"CONFIRM", 24 * time.Hour, &cfg.Confirm},
	}

	for _, kind := range kinds {
		secret := os.Getenv("JWT_" + kind.name + "_SECRET")
		if secret == "" {
			return JWTConfig{}, fmt.Errorf("JWT_%s_SECRET environment variable is required", kind.name)
		}
		kind.key.Secret = secret
		kind.key.TTL = getDurationEnv("JWT_"+kind.name+"_EXPIRES_IN", kind.defaultTTL)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

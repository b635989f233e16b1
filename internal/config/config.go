package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Search ranking. The tier weights and the fuzzy cutoff look tuned
	// empirically, so they stay adjustable instead of baked in.
	SearchRankExact      float64
	SearchRankPrefix     float64
	SearchRankSubstring  float64
	SearchFuzzyThreshold float64
	SearchPageSize       int
	SuggestionLimit      int

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "taskdeck_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m")),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h")),

		SearchRankExact:      parseFloat(getEnv("SEARCH_RANK_EXACT", "1.0"), 1.0),
		SearchRankPrefix:     parseFloat(getEnv("SEARCH_RANK_PREFIX", "0.8"), 0.8),
		SearchRankSubstring:  parseFloat(getEnv("SEARCH_RANK_SUBSTRING", "0.6"), 0.6),
		SearchFuzzyThreshold: parseFloat(getEnv("SEARCH_FUZZY_THRESHOLD", "0.2"), 0.2),
		SearchPageSize:       parseInt(getEnv("SEARCH_PAGE_SIZE", "10"), 10),
		SuggestionLimit:      parseInt(getEnv("SUGGESTION_LIMIT", "5"), 5),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

package config

import (
	"os"
	"strings"
)

// Config holds everything read from the environment at startup.
type Config struct {
	ListenAddr string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	// RedisAddr is optional; when empty the change feed stays in-process.
	RedisAddr     string
	RedisPassword string
}

func Load() *Config {
	cfg := &Config{
		ListenAddr:    env("LISTEN_ADDR", ":8080"),
		DBUser:        env("DB_USER", "postgres"),
		DBPassword:    env("DB_PASSWORD", ""),
		DBHost:        env("DB_HOST", "localhost"),
		DBPort:        env("DB_PORT", "5432"),
		DBName:        env("DB_NAME", "marque"),
		DBSSLMode:     env("DB_SSLMODE", "disable"),
		JWTSecret:     env("JWT_SECRET", ""),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPassword: env("REDIS_PASSWORD", ""),
	}
	return cfg
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

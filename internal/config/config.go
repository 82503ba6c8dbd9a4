package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env           string
	Backend       string // memory | redis | postgres
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBURL         string
	SessionSecret string
	AutoSaveDelay time.Duration
	AuditInterval time.Duration // zero means a single sweep
	MetricsPort   int
}

func Load() Config {
	return Config{
		Env:           getEnv("APP_ENV", "dev"),
		Backend:       getEnv("STORAGE_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DBURL:         buildDBURL(),
		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret"),
		AutoSaveDelay: getEnvDuration("AUTOSAVE_DELAY", 2*time.Second),
		AuditInterval: getEnvDuration("AUDIT_INTERVAL", 0),
		MetricsPort:   getEnvInt("METRICS_PORT", 9328),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "careervault")
	pass := getEnv("DB_PASSWORD", "careervault")
	name := getEnv("DB_NAME", "careervault")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}

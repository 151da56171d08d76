package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	LogLevel     string

	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string

	AuthURL    string
	PlannerURL string

	AuthDBPath    string
	PlannerDBPath string
	StoreDriver   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	CatalogTTL    time.Duration
	MediaRoot     string
	SessionIdle   time.Duration
}

// Load читает .env (если есть) и переменные окружения. defaultPort — порт конкретного сервиса.
func Load(defaultPort string) *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", defaultPort),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:    time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 30*24)) * time.Hour,
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),

		AuthURL:    getEnv("AUTH_URL", "http://localhost:3002"),
		PlannerURL: getEnv("PLANNER_URL", "http://localhost:3001"),

		AuthDBPath:    getEnv("AUTH_DB_PATH", "data/db/auth.db"),
		PlannerDBPath: getEnv("PLANNER_DB_PATH", "data/db/planner.db"),
		StoreDriver:   getEnv("STORE_DRIVER", "sqlite"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "planner"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		CatalogTTL:    time.Duration(getEnvAsInt("CATALOG_CACHE_SECONDS", 300)) * time.Second,
		MediaRoot:     getEnv("MEDIA_ROOT", "data/media"),
		SessionIdle:   time.Duration(getEnvAsInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	AppId       string

	GraphQLURL     string
	GraphQLTimeout time.Duration // 0 means no timeout
	ModulePageSize int

	StoreDriver string // mongo, redis or memory
	MongoURI    string
	DBName      string
	RedisURL    string

	ModuleRefreshSchedule         string // cron expression, empty disables periodic resync
	GuardRedirectOnMissingSession bool
	LogToDB                       bool
	CORSOrigins                   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-chms"),

		GraphQLURL:     getEnv("GRAPHQL_URL", "http://localhost:4000/graphql"),
		GraphQLTimeout: getDuration("GRAPHQL_TIMEOUT", 0),
		ModulePageSize: getInt("MODULE_PAGE_SIZE", 100),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "go-chms"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		ModuleRefreshSchedule:         getEnv("MODULE_REFRESH_SCHEDULE", ""),
		GuardRedirectOnMissingSession: getEnv("GUARD_REDIRECT_ON_MISSING_SESSION", "false") == "true",
		LogToDB:                       getEnv("LOG_TO_DB", "false") == "true",
		CORSOrigins:                   getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:3001"),
	}, nil
}

// UsesMongo reports whether any component needs a Mongo connection.
func (c *Config) UsesMongo() bool {
	return c.StoreDriver == "mongo" || c.LogToDB
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("15s") or a plain number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid duration for %s: %q, using %s", key, raw, fallback)
	return fallback
}

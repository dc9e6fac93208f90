package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // containers without /usr/share/zoneinfo

	"github.com/joho/godotenv"
)

// Config holds every setting the API process reads from the environment.
type Config struct {
	Port    string
	GinMode string

	DBDriver       string // postgres, mysql or sqlite
	DatabaseDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret string

	LogLevel  string
	LogFormat string

	RedisAddress      string // empty disables redis
	RedisPassword     string
	DashboardCacheTTL time.Duration
	SaleLockTTL       time.Duration

	Timezone    string
	PhoneRegion string

	CORSOrigins []string

	AdminUsername string
	AdminPassword string
}

// Load reads configs/.env (if present) and then the process environment.
// Precedence: explicit env var > .env file > default.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBMaxOpenConns:    intFromEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    intFromEnv("DB_MAX_IDLE_CONNS", 10),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		RedisAddress:      os.Getenv("REDIS_ADDRESS"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		DashboardCacheTTL: durationFromEnv("DASHBOARD_CACHE_TTL", 30*time.Second),
		SaleLockTTL:       durationFromEnv("SALE_LOCK_TTL", 10*time.Second),
		Timezone:          getEnv("TIMEZONE", "America/Guayaquil"),
		PhoneRegion:       strings.ToUpper(getEnv("PHONE_REGION", "EC")),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}
	cfg.DatabaseDSN = databaseDSN(cfg.DBDriver)
	return cfg
}

// Location resolves the configured time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("invalid TIMEZONE %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

// databaseDSN prefers DATABASE_DSN and otherwise assembles one from DB_* parts.
func databaseDSN(driver string) string {
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN")); dsn != "" {
		return strings.Trim(dsn, "\"'")
	}

	host := getEnv("DB_HOST", "localhost")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "sacra")

	switch driver {
	case "sqlite":
		return getEnv("DB_NAME", "sacra.db")
	case "mysql":
		port := getEnv("DB_PORT", "3306")
		return user + ":" + password + "@tcp(" + host + ":" + port + ")/" + name + "?charset=utf8mb4&parseTime=true&loc=UTC"
	default:
		port := getEnv("DB_PORT", "5432")
		sslMode := getEnv("DB_SSLMODE", "disable")
		return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid integer for %s: %s", key, v)
		return def
	}
	return n
}

func durationFromEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %s", key, v)
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

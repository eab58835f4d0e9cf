package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	// Store backend
	DBDriver      string
	MySQLDSN      string
	MongoURI      string
	MongoDatabase string
	StoreTimeout  time.Duration

	// Sessions
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	// CORS
	CORSAllowOrigins []string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		Port:     getenv("PORT", "4000"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:      strings.ToLower(getenv("DB_DRIVER", DriverMySQL)),
		MySQLDSN:      getenv("DB_DSN_PRIMARY", "root:root@tcp(127.0.0.1:3306)/cartify?parseTime=true"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "cartify"),
		StoreTimeout:  parseDuration(getenv("STORE_TIMEOUT", "5s"), 5*time.Second),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     parseDuration(getenv("JWT_TTL", "168h"), 7*24*time.Hour),
		BcryptCost: parseInt(getenv("BCRYPT_COST", "10"), 10),

		CORSAllowOrigins: splitCSV(getenv("CLIENT_URL", "http://localhost:5173")),
	}

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET environment variable is not set")
	}
	switch cfg.DBDriver {
	case DriverMySQL, DriverMongo, DriverMemory:
	default:
		return cfg, errors.New("DB_DRIVER must be one of mysql, mongo, memory")
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

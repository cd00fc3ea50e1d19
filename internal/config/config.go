package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"

	devSessionSecret = "gallery-dev-secret"
)

type Config struct {
	AppPort string
	AppEnv  string

	CatalogSource  string
	CatalogURL     string
	CatalogTimeout time.Duration

	DBURL      string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	PageSize         int
	LoadMoreCooldown time.Duration
	Locale           string

	SessionSecret string
	SessionTTL    time.Duration

	CORSOrigin  string
	InternalKey string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppEnv:  os.Getenv("APP_ENV"),

		CatalogSource:  getEnv("CATALOG_SOURCE", SourceHTTP),
		CatalogURL:     os.Getenv("CATALOG_URL"),
		CatalogTimeout: getDuration("CATALOG_TIMEOUT", 15*time.Second),

		PageSize:         getInt("PAGE_SIZE", 12),
		LoadMoreCooldown: getDuration("LOAD_MORE_COOLDOWN", time.Second),
		Locale:           getEnv("GALLERY_LOCALE", "en"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getDuration("SESSION_TTL", 30*time.Minute),

		CORSOrigin:  getEnv("CORS_ORIGIN", "http://localhost:3000"),
		InternalKey: os.Getenv("INTERNAL_SECRET_KEY"),
	}
	cfg.loadDB()

	if cfg.SessionSecret == "" && !cfg.IsProduction() {
		log.Println("SESSION_SECRET not set, using development secret")
		cfg.SessionSecret = devSessionSecret
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}

	return cfg
}

// LoadDBConfig reads only the database settings, for tools such as the
// migration runner that do not need the rest of the configuration.
func LoadDBConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{AppEnv: os.Getenv("APP_ENV")}
	cfg.loadDB()
	return cfg
}

func (c *Config) loadDB() {
	c.DBURL = os.Getenv("DB_URL")
	c.DBHost = os.Getenv("DB_HOST")
	c.DBUser = os.Getenv("DB_USER")
	c.DBPassword = os.Getenv("DB_PASSWORD")
	c.DBName = os.Getenv("DB_NAME")
	c.DBPort = os.Getenv("DB_PORT")
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesDatabase reports whether the catalog is read from Postgres.
func (c *Config) UsesDatabase() bool {
	return c.CatalogSource == SourcePostgres
}

func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceHTTP:
	case SourcePostgres:
		if c.DBHost == "" && c.DBURL == "" {
			return errors.New("DB_URL or DB_HOST is required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource)
	}

	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

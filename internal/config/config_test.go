package config

import (
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("CATALOG_SOURCE", "postgres")
		t.Setenv("CATALOG_URL", "http://catalog.local/api/data")
		t.Setenv("CATALOG_TIMEOUT", "3s")
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("PAGE_SIZE", "24")
		t.Setenv("LOAD_MORE_COOLDOWN", "500ms")
		t.Setenv("GALLERY_LOCALE", "sv")
		t.Setenv("SESSION_SECRET", "secret")
		t.Setenv("SESSION_TTL", "10m")
		t.Setenv("CORS_ORIGIN", "https://gallery.example")
		t.Setenv("INTERNAL_SECRET_KEY", "internal")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.True(t, cfg.UsesDatabase())
		assert.Equal(t, "http://catalog.local/api/data", cfg.CatalogURL)
		assert.Equal(t, 3*time.Second, cfg.CatalogTimeout)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, 24, cfg.PageSize)
		assert.Equal(t, 500*time.Millisecond, cfg.LoadMoreCooldown)
		assert.Equal(t, "sv", cfg.Locale)
		assert.Equal(t, "secret", cfg.SessionSecret)
		assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "https://gallery.example", cfg.CORSOrigin)
		assert.Equal(t, "internal", cfg.InternalKey)
	})

	t.Run("Defaults", func(t *testing.T) {
		for _, key := range []string{
			"APP_PORT", "CATALOG_SOURCE", "CATALOG_URL", "CATALOG_TIMEOUT", "DB_URL", "DB_HOST",
			"PAGE_SIZE", "LOAD_MORE_COOLDOWN", "GALLERY_LOCALE", "SESSION_SECRET", "SESSION_TTL", "CORS_ORIGIN",
		} {
			t.Setenv(key, "")
		}
		t.Setenv("APP_ENV", "development")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, SourceHTTP, cfg.CatalogSource)
		assert.False(t, cfg.UsesDatabase())
		assert.Equal(t, 15*time.Second, cfg.CatalogTimeout)
		assert.Equal(t, 12, cfg.PageSize)
		assert.Equal(t, time.Second, cfg.LoadMoreCooldown)
		assert.Equal(t, "en", cfg.Locale)
		assert.Equal(t, devSessionSecret, cfg.SessionSecret)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	})

	t.Run("Invalid numbers fall back", func(t *testing.T) {
		t.Setenv("CATALOG_SOURCE", "")
		t.Setenv("PAGE_SIZE", "many")
		t.Setenv("CATALOG_TIMEOUT", "-1s")
		t.Setenv("SESSION_SECRET", "secret")

		cfg := LoadConfig()

		assert.Equal(t, 12, cfg.PageSize)
		assert.Equal(t, 15*time.Second, cfg.CatalogTimeout)
	})
}

func TestLoadDBConfig(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_URL", "postgres://gallery@db/gallery")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "gallery")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "gallery")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("SESSION_SECRET", "")

	cfg := LoadDBConfig()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "postgres://gallery@db/gallery", cfg.DBURL)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "gallery", cfg.DBUser)
	assert.Equal(t, "pw", cfg.DBPassword)
	assert.Equal(t, "gallery", cfg.DBName)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Empty(t, cfg.SessionSecret)
}

func TestValidate(t *testing.T) {
	valid := Config{CatalogSource: SourceHTTP, SessionSecret: "s", PageSize: 12}
	assert.NoError(t, valid.Validate())

	pg := valid
	pg.CatalogSource = SourcePostgres
	assert.ErrorContains(t, pg.Validate(), "DB_HOST")

	pg.DBURL = "postgres://localhost/gallery"
	assert.NoError(t, pg.Validate())

	pg.DBURL = ""
	pg.DBHost = "localhost"
	assert.NoError(t, pg.Validate())

	unknown := valid
	unknown.CatalogSource = "ftp"
	assert.Error(t, unknown.Validate())

	noSecret := valid
	noSecret.SessionSecret = ""
	assert.Error(t, noSecret.Validate())

	badPage := valid
	badPage.PageSize = 0
	assert.Error(t, badPage.Validate())
}

func TestLoadConfig_Fatal(t *testing.T) {
	// LoadConfig exits when postgres is selected without a host
	if os.Getenv("BE_CRASHER") == "1" {
		os.Setenv("CATALOG_SOURCE", "postgres")
		os.Setenv("DB_HOST", "")
		os.Setenv("SESSION_SECRET", "secret")
		LoadConfig()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestLoadConfig_Fatal")
	cmd.Env = append(os.Environ(), "BE_CRASHER=1")
	err := cmd.Run()

	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		return
	}
	t.Fatalf("process ran with err %v, want exit status 1", err)
}

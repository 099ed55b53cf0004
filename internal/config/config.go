package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every tunable the binaries need. It is loaded once in main
// and passed down explicitly; nothing reads the environment after startup.
type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"reckon"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"reckon"`
	}

	HTTP struct {
		// AllowedOrigins is the CORS allow-list for the browser dashboard.
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	// Client configures the terminal client's API connection.
	Client struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	}

	Ingest struct {
		// Workers bounds how many records of one bulk request are persisted
		// concurrently. 1 keeps the strictly sequential behavior.
		Workers int `envconfig:"INGEST_WORKERS" default:"1"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

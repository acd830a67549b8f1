package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Unterstützte Report-Quellen.
const (
	SourceAnalytics = "analytics"
	SourcePostgres  = "postgres"
	SourceArchive   = "archive"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	HTTPPort       string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey   string `envconfig:"API_SECRET_KEY"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`

	// Quelle der Reports: analytics, postgres oder archive
	ReportSource string `envconfig:"REPORT_SOURCE" default:"analytics"`

	AnalyticsBaseURL string        `envconfig:"ANALYTICS_BASE_URL" default:"http://localhost:8000/api"`
	AnalyticsAPIKey  string        `envconfig:"ANALYTICS_API_KEY"`
	AnalyticsTimeout time.Duration `envconfig:"ANALYTICS_TIMEOUT" default:"30s"`

	DBHost     string `envconfig:"DB_HOST"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME"`

	S3Key    string `envconfig:"S3_KEY"`
	S3Secret string `envconfig:"S3_SECRET"`
	S3URL    string `envconfig:"S3_URL"`
	S3Region string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"reports/"`

	// Digest-Job: leerer Schedule deaktiviert den Cron
	CronSchedule  string `envconfig:"CRON_SCHEDULE"`
	DigestUserIDs string `envconfig:"DIGEST_USER_IDS"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// DigestUsers liefert die bereinigte Liste der Nutzer-IDs für den Digest-Job.
func (c *Config) DigestUsers() []string {
	var users []string
	for _, id := range strings.Split(c.DigestUserIDs, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			users = append(users, id)
		}
	}
	return users
}

// Validate prüft die quellenspezifischen Pflichtfelder.
func (c *Config) Validate() error {
	switch c.ReportSource {
	case SourceAnalytics:
		if c.AnalyticsBaseURL == "" {
			return fmt.Errorf("ANALYTICS_BASE_URL is required for source %q", c.ReportSource)
		}
	case SourcePostgres:
		var missing []string
		if c.DBHost == "" {
			missing = append(missing, "DB_HOST")
		}
		if c.DBUser == "" {
			missing = append(missing, "DB_USER")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing settings for source %q: %s", c.ReportSource, strings.Join(missing, ", "))
		}
	case SourceArchive:
		if c.S3Bucket == "" || c.S3URL == "" {
			return fmt.Errorf("S3_URL and S3_BUCKET are required for source %q", c.ReportSource)
		}
	default:
		return fmt.Errorf("unknown REPORT_SOURCE %q", c.ReportSource)
	}
	return nil
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return &c, err
	}
	return &c, c.Validate()
}

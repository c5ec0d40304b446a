package db

import (
	"fmt"
	"log"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Options selects the submission log database. A Turso URL wins over a
// local SQLite path.
type Options struct {
	Path        string
	TursoURL    string
	TursoToken  string
	Environment string
}

// Initialize sets up the database connection
func Initialize(opts Options) error {
	// Determine log level based on environment
	logLevel := logger.Info
	if opts.Environment == "production" {
		logLevel = logger.Warn
	}

	dialector, target, err := dialectorFor(opts)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("Database connection established (%s)", target)
	return nil
}

func dialectorFor(opts Options) (gorm.Dialector, string, error) {
	if opts.TursoURL != "" {
		dsn, err := tursoDSN(opts.TursoURL, opts.TursoToken)
		if err != nil {
			return nil, "", err
		}
		return sqlite.New(sqlite.Config{DriverName: "libsql", DSN: dsn}), "turso", nil
	}

	if opts.Path == "" {
		return nil, "", fmt.Errorf("no database path configured")
	}

	// Enable WAL mode for better concurrency support
	return sqlite.Open(opts.Path + "?_journal_mode=WAL"), "sqlite WAL", nil
}

// tursoDSN appends the auth token to a libsql:// URL
func tursoDSN(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid TURSO_DATABASE_URL: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("authToken", token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}

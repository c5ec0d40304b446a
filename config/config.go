package config

import (
	"errors"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort     string   `env:"SERVER_PORT" envDefault:"8080"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	AppURL         string   `env:"APP_URL" envDefault:"http://localhost:8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	// Supabase lead table
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`
	LeadsTable      string `env:"LEADS_TABLE" envDefault:"muafin_leads"`
	// Submission log (empty DB_PATH and TURSO_DATABASE_URL disable it)
	DBPath                  string `env:"DB_PATH"`
	TursoDatabaseURL        string `env:"TURSO_DATABASE_URL"`
	TursoAuthToken          string `env:"TURSO_AUTH_TOKEN"`
	SubmissionRetentionDays int    `env:"SUBMISSION_RETENTION_DAYS" envDefault:"90"`
	// Rate limiting store (in-memory when empty)
	RedisURL string `env:"REDIS_URL"`
	// Cloudflare Turnstile
	TurnstileSiteKey   string `env:"TURNSTILE_SITE_KEY"`
	TurnstileSecretKey string `env:"TURNSTILE_SECRET_KEY"`
	// Email (Resend)
	ResendAPIKey    string `env:"RESEND_API_KEY"`
	EmailFrom       string `env:"EMAIL_FROM" envDefault:"noreply@muafin.com"`
	EmailFromName   string `env:"EMAIL_FROM_NAME" envDefault:"Muafin"`
	EmailTestMode   bool   `env:"EMAIL_TEST_MODE" envDefault:"true"` // When true, emails are logged to console instead of sent
	LeadNotifyEmail string `env:"LEAD_NOTIFY_EMAIL"`
	// Observability
	SentryDSN      string `env:"SENTRY_DSN"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	// Content-Security-Policy origins for htmx and the Turnstile widget
	CSPScriptOrigins []string `env:"CSP_SCRIPT_ORIGINS" envDefault:"https://unpkg.com,https://challenges.cloudflare.com" envSeparator:","`
	CSPFrameOrigins  []string `env:"CSP_FRAME_ORIGINS" envDefault:"https://challenges.cloudflare.com" envSeparator:","`
}

// Load reads .env (if present) and the process environment.
// A missing Supabase configuration is fatal in production.
func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("[CRITICAL] Invalid configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		if cfg.IsProduction() {
			log.Fatalf("[CRITICAL] %v", err)
		}
		log.Printf("[WARNING] %v. Lead submissions will fail until it is set.", err)
	}

	return cfg
}

// Parse builds a Config from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	cfg.CSPScriptOrigins = trimAll(cfg.CSPScriptOrigins)
	cfg.CSPFrameOrigins = trimAll(cfg.CSPFrameOrigins)
	if cfg.SubmissionRetentionDays <= 0 {
		cfg.SubmissionRetentionDays = 90
	}

	return cfg, nil
}

// trimAll trims each entry and drops empty ones
func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks that lead submissions can reach the lead table
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.SupabaseURL) == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if strings.TrimSpace(c.SupabaseAnonKey) == "" {
		missing = append(missing, "SUPABASE_ANON_KEY")
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, " and ") + " must be set")
	}
	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SubmissionLogEnabled reports whether a submission log database is configured
func (c *Config) SubmissionLogEnabled() bool {
	return c.DBPath != "" || c.TursoDatabaseURL != ""
}

// TurnstileEnabled reports whether the CAPTCHA check runs on lead submissions
func (c *Config) TurnstileEnabled() bool {
	return c.TurnstileSiteKey != "" && c.TurnstileSecretKey != ""
}

// LeadNotificationsEnabled reports whether new leads are emailed to the team
func (c *Config) LeadNotificationsEnabled() bool {
	return c.LeadNotifyEmail != ""
}

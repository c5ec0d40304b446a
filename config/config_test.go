package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "muafin_leads", cfg.LeadsTable)
	assert.Equal(t, 90, cfg.SubmissionRetentionDays)
	assert.True(t, cfg.EmailTestMode)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://unpkg.com", "https://challenges.cloudflare.com"}, cfg.CSPScriptOrigins)
	assert.Equal(t, []string{"https://challenges.cloudflare.com"}, cfg.CSPFrameOrigins)
}

func TestParseFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("ALLOWED_ORIGINS", "https://muafin.com, https://www.muafin.com")
	t.Setenv("EMAIL_TEST_MODE", "false")
	t.Setenv("SUBMISSION_RETENTION_DAYS", "0")
	t.Setenv("CSP_SCRIPT_ORIGINS", " https://cdn.muafin.com ,")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://muafin.com", "https://www.muafin.com"}, cfg.AllowedOrigins)
	assert.False(t, cfg.EmailTestMode)
	assert.Equal(t, 90, cfg.SubmissionRetentionDays)
	assert.Equal(t, []string{"https://cdn.muafin.com"}, cfg.CSPScriptOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestParseInvalidValue(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "maybe")

	_, err := Parse()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL and SUPABASE_ANON_KEY")

	cfg.SupabaseURL = "https://abc.supabase.co"
	err = cfg.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPABASE_URL ")
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")

	cfg.SupabaseAnonKey = "anon"
	assert.NoError(t, cfg.Validate())
}

func TestFeatureSwitches(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.SubmissionLogEnabled())
	assert.False(t, cfg.TurnstileEnabled())
	assert.False(t, cfg.LeadNotificationsEnabled())

	cfg.DBPath = "db/app.db"
	cfg.TurnstileSiteKey = "site"
	assert.True(t, cfg.SubmissionLogEnabled())
	assert.False(t, cfg.TurnstileEnabled())

	cfg.TurnstileSecretKey = "secret"
	cfg.LeadNotifyEmail = "sales@muafin.com"
	assert.True(t, cfg.TurnstileEnabled())
	assert.True(t, cfg.LeadNotificationsEnabled())
}

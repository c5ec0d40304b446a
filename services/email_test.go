package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"muafin_web_go/config"
	"muafin_web_go/models"
	"muafin_web_go/services/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTemplateDir(t *testing.T) string {
	dir := t.TempDir()
	old := emailTemplateDir
	emailTemplateDir = dir
	t.Cleanup(func() { emailTemplateDir = old })
	return dir
}

func TestLoadTemplate(t *testing.T) {
	dir := useTemplateDir(t)

	os.WriteFile(filepath.Join(dir, "test_template.html"), []byte("<html><body>Hello {{.UserName}}</body></html>"), 0644)
	os.WriteFile(filepath.Join(dir, "test_template.txt"), []byte("Hello {{.UserName}}"), 0644)
	os.WriteFile(filepath.Join(dir, "test_template_th.html"), []byte("<html><body>สวัสดี {{.UserName}}</body></html>"), 0644)
	os.WriteFile(filepath.Join(dir, "test_template_th.txt"), []byte("สวัสดี {{.UserName}}"), 0644)

	type data struct {
		UserName string
	}
	tplData := data{UserName: "Somchai"}

	t.Run("Load Base Template", func(t *testing.T) {
		html, text, err := loadTemplate("test_template", i18n.English, tplData)
		assert.NoError(t, err)
		assert.Contains(t, html, "Hello Somchai")
		assert.Contains(t, text, "Hello Somchai")
	})

	t.Run("Load Localized Template", func(t *testing.T) {
		html, text, err := loadTemplate("test_template", i18n.Thai, tplData)
		assert.NoError(t, err)
		assert.Contains(t, html, "สวัสดี Somchai")
		assert.Contains(t, text, "สวัสดี Somchai")
	})

	t.Run("Template Not Found", func(t *testing.T) {
		_, _, err := loadTemplate("non_existent", i18n.English, tplData)
		assert.Error(t, err)
	})
}

func TestBuildEmailWithFallback(t *testing.T) {
	dir := useTemplateDir(t)

	os.WriteFile(filepath.Join(dir, "test_build.html"), []byte("HTML {{.Val}}"), 0644)
	os.WriteFile(filepath.Join(dir, "test_build.txt"), []byte("Text {{.Val}}"), 0644)

	email := buildEmailWithFallback("test_build", i18n.Thai, map[string]string{"Val": "OK"}, "sales@muafin.com")
	assert.Equal(t, []string{"sales@muafin.com"}, email.To)
	assert.Equal(t, "HTML OK", email.HTMLBody)
	assert.Equal(t, "Text OK", email.TextBody)
}

func TestSendEmail_TestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}
	email := &Email{
		To:       []string{"test@example.com"},
		Subject:  "Test",
		HTMLBody: "Body",
	}

	assert.NoError(t, SendEmail(cfg, email))
}

func TestSendEmail_NoApiKey(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false}
	email := &Email{
		To:       []string{"test@example.com"},
		Subject:  "Test",
		HTMLBody: "Body",
	}

	err := SendEmail(cfg, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY not configured")
}

func TestSendEmail_NoBody(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false, ResendAPIKey: "key"}
	email := &Email{
		To:      []string{"test@example.com"},
		Subject: "Test",
	}

	err := SendEmail(cfg, email)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must have either HTMLBody or TextBody")
}

func TestTruncate(t *testing.T) {
	s := "Hello World"
	assert.Equal(t, "Hello", truncate(s, 5))
	assert.Equal(t, "Hello World", truncate(s, 20))

	// "ก" is three bytes; a cut inside it backs up to the rune start
	thai := strings.Repeat("ก", 400)
	cut := truncate(thai, 1024)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, 1023, len(cut))
	assert.Equal(t, "ก", truncate("กข", 4))
}

func strPtr(s string) *string {
	return &s
}

func TestBuildNewLeadEmail(t *testing.T) {
	require.NoError(t, i18n.Load())

	dir := useTemplateDir(t)
	os.WriteFile(filepath.Join(dir, "new_lead.html"), []byte("<p>{{.FullName}} {{.Message}} {{.BusinessType}}</p>"), 0644)
	os.WriteFile(filepath.Join(dir, "new_lead.txt"), []byte("{{.FullName}} / {{.RequestType}} / {{.Phone}}"), 0644)

	lead := &models.LeadSubmission{
		FullName:     "Somsak T",
		Email:        "somsak@example.com",
		BusinessType: strPtr(models.BusinessTypeIslamicBank),
		RequestType:  models.RequestTypeDemo,
		Message:      strPtr(`<script>alert(1)</script>Call me`),
		SourcePage:   "/",
	}

	email := BuildNewLeadEmail(lead, "sales@muafin.com", i18n.English)
	assert.Equal(t, []string{"sales@muafin.com"}, email.To)
	assert.Equal(t, "New Muafin lead: Somsak T", email.Subject)
	assert.Contains(t, email.HTMLBody, "Call me")
	assert.NotContains(t, email.HTMLBody, "<script>")
	assert.Contains(t, email.HTMLBody, "Islamic Bank")
	assert.Equal(t, "Somsak T / Request Demo / -", email.TextBody)
}

func TestBuildNewLeadEmail_MissingTemplates(t *testing.T) {
	require.NoError(t, i18n.Load())
	useTemplateDir(t)

	lead := &models.LeadSubmission{
		FullName:    "Somsak T",
		Email:       "somsak@example.com",
		RequestType: models.RequestTypeEarlyAccess,
		SourcePage:  "/",
	}

	email := BuildNewLeadEmail(lead, "sales@muafin.com", i18n.Thai)
	assert.Empty(t, email.HTMLBody)
	assert.Contains(t, email.TextBody, "Somsak T <somsak@example.com>")
	assert.Contains(t, email.TextBody, "เข้าร่วม Early Access")
	assert.Equal(t, "ผู้สนใจใหม่ของ Muafin: Somsak T", email.Subject)
}

func TestNotifyNewLead_Disabled(t *testing.T) {
	// No notify address: nothing is built or sent
	assert.NotPanics(t, func() {
		NotifyNewLead(&config.Config{}, &models.LeadSubmission{FullName: "x"})
		NotifyNewLead(nil, nil)
	})
}

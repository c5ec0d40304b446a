package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"muafin_web_go/config"
	"muafin_web_go/models"
	"muafin_web_go/services/i18n"

	"github.com/microcosm-cc/bluemonday"
	"github.com/resend/resend-go/v2"
)

// emailTemplateDir is where the localized email templates live
var emailTemplateDir = "templates/emails"

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// buildEmailWithFallback loads templateName in lang, then in English.
// The returned email has empty bodies if neither could be loaded.
func buildEmailWithFallback(templateName string, lang i18n.Language, tmplData interface{}, toEmail string) *Email {
	htmlBody, textBody, err := loadTemplate(templateName, lang, tmplData)
	if err != nil {
		log.Printf("Error loading %s email template for lang %s: %v", templateName, lang, err)
	}

	if htmlBody == "" && textBody == "" && lang != i18n.English {
		htmlBody, textBody, err = loadTemplate(templateName, i18n.English, tmplData)
		if err != nil {
			log.Printf("Error loading default 'en' template for %s: %v", templateName, err)
		}
	}

	return &Email{
		To:       []string{toEmail},
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// loadTemplate loads templateName + "_" + lang + ".html/.txt", falling back
// to templateName + ".html/.txt" (English).
func loadTemplate(templateName string, lang i18n.Language, data interface{}) (html string, text string, err error) {
	loadAndExec := func(ext string) (string, error) {
		// Try localized first
		path := filepath.Join(emailTemplateDir, fmt.Sprintf("%s_%s%s", templateName, lang, ext))
		content, err := os.ReadFile(path)
		if err != nil {
			path = filepath.Join(emailTemplateDir, templateName+ext)
			content, err = os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("failed to read template %s: %w", path, err)
			}
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return "", fmt.Errorf("failed to parse template %s: %w", path, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("failed to execute template %s: %w", path, err)
		}
		return buf.String(), nil
	}

	htmlContent, err := loadAndExec(".html")
	if err != nil {
		return "", "", err
	}

	textContent, err := loadAndExec(".txt")
	if err != nil {
		return "", "", err
	}

	return htmlContent, textContent, nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (test mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate cuts s to at most maxLen bytes without splitting a UTF-8 sequence
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// SendEmailAsync sends an email in a goroutine so handlers never wait on it
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// NewLeadEmailData contains data for the new lead notification template
type NewLeadEmailData struct {
	FullName     string
	Email        string
	Phone        string
	BusinessName string
	BusinessType string
	RequestType  string
	Message      string
	SourcePage   string
	ReceivedAt   string
}

var leadTextPolicy = bluemonday.StrictPolicy()

// sanitizeLeadText strips any markup a prospect typed into the form
func sanitizeLeadText(s *string) string {
	if s == nil {
		return "-"
	}
	clean := strings.TrimSpace(leadTextPolicy.Sanitize(*s))
	if clean == "" {
		return "-"
	}
	return clean
}

// BuildNewLeadEmail creates the internal notification for a captured lead
func BuildNewLeadEmail(lead *models.LeadSubmission, notifyEmail string, lang i18n.Language) *Email {
	businessType := "-"
	if lead.BusinessType != nil {
		businessType = i18n.Translate(lang, "business_types."+*lead.BusinessType)
	}

	requestType := i18n.Translate(lang, "form.early_access")
	if lead.RequestType == models.RequestTypeDemo {
		requestType = i18n.Translate(lang, "form.request_demo")
	}

	fullName := sanitizeLeadText(&lead.FullName)
	data := NewLeadEmailData{
		FullName:     fullName,
		Email:        lead.Email,
		Phone:        sanitizeLeadText(lead.Phone),
		BusinessName: sanitizeLeadText(lead.BusinessName),
		BusinessType: businessType,
		RequestType:  requestType,
		Message:      sanitizeLeadText(lead.Message),
		SourcePage:   lead.SourcePage,
		ReceivedAt:   time.Now().UTC().Format(time.RFC1123),
	}

	email := buildEmailWithFallback("new_lead", lang, data, notifyEmail)
	if email.HTMLBody == "" && email.TextBody == "" {
		email.TextBody = fmt.Sprintf("%s <%s>\n%s\n%s\n%s",
			data.FullName, data.Email, data.RequestType, data.Phone, data.Message)
	}
	email.Subject = i18n.Translate(lang, "email.new_lead_subject", map[string]interface{}{"name": fullName})
	return email
}

// NotifyNewLead emails the team about lead when notifications are enabled
func NotifyNewLead(cfg *config.Config, lead *models.LeadSubmission) {
	if cfg == nil || !cfg.LeadNotificationsEnabled() || lead == nil {
		return
	}
	SendEmailAsync(cfg, BuildNewLeadEmail(lead, cfg.LeadNotifyEmail, i18n.English))
}

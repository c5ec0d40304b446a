package templates

import (
	"muafin_web_go/models"
	"muafin_web_go/services/i18n"
	"muafin_web_go/services/leads"
)

// Card is one titled block of copy (problem, feature or process step)
type Card struct {
	Number      int
	Title       string
	Description string
}

// Option is one <option> of a select
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// PageMeta carries per-request values the layout needs
type PageMeta struct {
	CSRFToken    string
	Nonce        string
	CSSVersion   string
	AppJSVersion string
	LogoVersion  string
}

// LeadFormView is everything the lead form partial renders
type LeadFormView struct {
	Lang             i18n.Language
	CSRFToken        string
	SourcePage       string
	Values           leads.Fields
	Status           *leads.Status
	Pending          bool
	TurnstileSiteKey string
}

// NewLeadFormView renders form in lang
func NewLeadFormView(lang i18n.Language, form *leads.Form, csrfToken, sourcePage, turnstileSiteKey string) LeadFormView {
	if sourcePage == "" {
		sourcePage = "/"
	}
	return LeadFormView{
		Lang:             lang,
		CSRFToken:        csrfToken,
		SourcePage:       sourcePage,
		Values:           form.Fields(),
		Status:           form.Status(),
		Pending:          form.Pending(),
		TurnstileSiteKey: turnstileSiteKey,
	}
}

// T translates key in the form's language
func (v LeadFormView) T(key string) string {
	return i18n.Translate(v.Lang, key)
}

// StatusText is the localized status banner, empty when none is shown
func (v LeadFormView) StatusText() string {
	if v.Status == nil {
		return ""
	}
	return v.Status.Text(v.Lang)
}

// StatusIsError reports whether the banner is an error
func (v LeadFormView) StatusIsError() bool {
	return v.Status != nil && v.Status.Kind == leads.StatusError
}

// SubmitLabel switches to the submitting label while a submission is in flight
func (v LeadFormView) SubmitLabel() string {
	if v.Pending {
		return v.T("form.submitting")
	}
	return v.T("form.submit")
}

// BusinessTypeOptions lists the business types with the current value selected
func (v LeadFormView) BusinessTypeOptions() []Option {
	types := models.BusinessTypes()
	options := make([]Option, 0, len(types))
	for _, code := range types {
		options = append(options, Option{
			Value:    code,
			Label:    v.T("business_types." + code),
			Selected: v.Values.BusinessType == code,
		})
	}
	return options
}

// RequestTypeOptions lists the request types; early access unless another is chosen
func (v LeadFormView) RequestTypeOptions() []Option {
	selected := v.Values.RequestType
	if selected == "" {
		selected = models.RequestTypeEarlyAccess
	}
	return []Option{
		{Value: models.RequestTypeEarlyAccess, Label: v.T("form.early_access"), Selected: selected == models.RequestTypeEarlyAccess},
		{Value: models.RequestTypeDemo, Label: v.T("form.request_demo"), Selected: selected == models.RequestTypeDemo},
	}
}

// LandingView is the whole landing page
type LandingView struct {
	PageMeta
	Lang i18n.Language
	Form LeadFormView
}

// NewLandingView builds the landing page around an already rendered form view
func NewLandingView(lang i18n.Language, meta PageMeta, form LeadFormView) LandingView {
	return LandingView{PageMeta: meta, Lang: lang, Form: form}
}

// T translates key in the page language
func (v LandingView) T(key string) string {
	return i18n.Translate(v.Lang, key)
}

// HTMLLang is the value of <html lang>
func (v LandingView) HTMLLang() string {
	return v.Lang.Tag().String()
}

// Problems are the three pain points of manual pawn management
func (v LandingView) Problems() []Card {
	return v.cards("problems", "paperwork", "compliance", "time")
}

// Features are the four selling points
func (v LandingView) Features() []Card {
	return v.cards("features", "ujrah", "contracts", "cloud", "reminders")
}

// Process is the four-step loan cycle, numbered from 1
func (v LandingView) Process() []Card {
	return v.cards("process", "accept", "generate", "track", "close")
}

func (v LandingView) cards(section string, keys ...string) []Card {
	cards := make([]Card, 0, len(keys))
	for i, key := range keys {
		prefix := section + "." + key
		cards = append(cards, Card{
			Number:      i + 1,
			Title:       v.T(prefix + ".title"),
			Description: v.T(prefix + ".description"),
		})
	}
	return cards
}

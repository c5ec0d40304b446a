package handlers

import (
	"muafin_web_go/config"
	"muafin_web_go/middleware"
	"muafin_web_go/services/leads"
	"muafin_web_go/templates"

	"github.com/labstack/echo/v4"
)

// LandingHandler renders the landing page with an empty lead form
func LandingHandler(c echo.Context) error {
	lang := middleware.GetLocale(c)
	form := leads.NewForm(LeadStore)

	view := templates.NewLeadFormView(lang, form, middleware.GetCSRFToken(c), c.Request().URL.Path, turnstileSiteKey(c))
	return render(c, templates.Landing(templates.NewLandingView(lang, pageMeta(c), view)))
}

func turnstileSiteKey(c echo.Context) string {
	if cfg, ok := c.Get("config").(*config.Config); ok && cfg.TurnstileEnabled() {
		return cfg.TurnstileSiteKey
	}
	return ""
}

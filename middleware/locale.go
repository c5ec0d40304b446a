package middleware

import (
	"muafin_web_go/config"
	"muafin_web_go/services/i18n"
	"net/http"

	"github.com/labstack/echo/v4"
)

// LanguageCookie is the cookie that remembers the visitor's choice
const LanguageCookie = "lang"

// Locale middleware resolves the display language.
// Priority:
// 1. Query param "lang" (sets cookie)
// 2. Cookie "lang"
// 3. Default ("en")
func Locale(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := i18n.DefaultLanguage

			if raw := c.QueryParam("lang"); raw != "" {
				if parsed, ok := i18n.ParseLanguage(raw); ok {
					lang = parsed
				}
				setLanguageCookie(c, cfg, lang)
			} else if cookie, err := c.Cookie(LanguageCookie); err == nil {
				if parsed, ok := i18n.ParseLanguage(cookie.Value); ok {
					lang = parsed
				}
			}

			// Echo context for handlers, request context for templates
			c.Set("locale", lang)
			c.SetRequest(c.Request().WithContext(i18n.WithLocale(c.Request().Context(), lang)))

			return next(c)
		}
	}
}

// SetLanguageCookie persists lang for the rest of the browser session
func SetLanguageCookie(c echo.Context, lang i18n.Language) {
	cfg, _ := c.Get("config").(*config.Config)
	setLanguageCookie(c, cfg, lang)
}

func setLanguageCookie(c echo.Context, cfg *config.Config, lang i18n.Language) {
	// No Expires: the choice lasts for the session only
	cookie := &http.Cookie{
		Name:     LanguageCookie,
		Value:    lang.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cfg != nil && cfg.IsProduction() {
		cookie.Secure = true
	}
	c.SetCookie(cookie)
}

// GetLocale returns the current locale from context
func GetLocale(c echo.Context) i18n.Language {
	if lang, ok := c.Get("locale").(i18n.Language); ok {
		return lang
	}
	return i18n.DefaultLanguage
}

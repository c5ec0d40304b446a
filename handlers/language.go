package handlers

import (
	"net/http"

	"muafin_web_go/middleware"

	"github.com/labstack/echo/v4"
)

// ToggleLanguageHandler flips between English and Thai
func ToggleLanguageHandler(c echo.Context) error {
	lang := middleware.GetLocale(c).Toggle()
	middleware.SetLanguageCookie(c, lang)

	if isHTMX(c) {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusOK)
	}

	target := refererPath(c)
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"muafin_web_go/middleware"
	"muafin_web_go/templates"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

func render(c echo.Context, component templ.Component) error {
	return renderStatus(c, http.StatusOK, component)
}

func renderStatus(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response().Writer)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func pageMeta(c echo.Context) templates.PageMeta {
	ctx := c.Request().Context()
	return templates.PageMeta{
		CSRFToken:    middleware.GetCSRFToken(c),
		Nonce:        middleware.GetNonce(ctx),
		CSSVersion:   middleware.GetCSSVersion(ctx),
		AppJSVersion: middleware.GetAppJSVersion(ctx),
		LogoVersion:  middleware.GetLogoVersion(ctx),
	}
}

// refererPath returns the path of the Referer header, or "" when absent or
// pointing at another host
func refererPath(c echo.Context) string {
	raw := c.Request().Referer()
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != c.Request().Host {
		return ""
	}
	return localPath(u.Path)
}

// localPath accepts only same-site absolute paths
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return ""
	}
	return p
}

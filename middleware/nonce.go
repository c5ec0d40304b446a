package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"muafin_web_go/config"

	"github.com/labstack/echo/v4"
)

type contextKey string

const NonceKey contextKey = "csp_nonce"

// CSPSources lists the third-party origins the landing page may load
type CSPSources struct {
	Scripts []string
	Frames  []string
}

// CSPSourcesFromConfig reads the configured script and frame origins
func CSPSourcesFromConfig(cfg *config.Config) CSPSources {
	if cfg == nil {
		return CSPSources{}
	}
	return CSPSources{Scripts: cfg.CSPScriptOrigins, Frames: cfg.CSPFrameOrigins}
}

// GenerateNonce creates a random nonce string
func GenerateNonce() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// ContentSecurityPolicy builds the header value for one response. Inline
// scripts run only with nonce; forms may post only to this origin.
func ContentSecurityPolicy(nonce string, sources CSPSources) string {
	directives := []string{
		"default-src 'self'",
		withSources("script-src 'self' 'nonce-"+nonce+"'", sources.Scripts),
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		"img-src 'self' data:",
		"font-src 'self' https://fonts.gstatic.com",
		"connect-src 'self'",
		"form-action 'self'",
		"base-uri 'self'",
	}
	if len(sources.Frames) > 0 {
		directives = append(directives, withSources("frame-src", sources.Frames))
	} else {
		directives = append(directives, "frame-src 'none'")
	}
	return strings.Join(directives, "; ")
}

func withSources(directive string, origins []string) string {
	if len(origins) == 0 {
		return directive
	}
	return directive + " " + strings.Join(origins, " ")
}

// CSPNonce middleware generates a nonce for each request, stores it in both
// contexts and sets the Content-Security-Policy header
func CSPNonce(sources CSPSources) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			nonce, err := GenerateNonce()
			if err != nil {
				c.Logger().Errorf("Failed to generate nonce: %v", err)
				nonce = "fallback-nonce-value"
			}

			// Echo context for handlers, request context for templates
			c.Set(string(NonceKey), nonce)
			ctx := context.WithValue(c.Request().Context(), NonceKey, nonce)
			c.SetRequest(c.Request().WithContext(ctx))

			c.Response().Header().Set("Content-Security-Policy", ContentSecurityPolicy(nonce, sources))

			return next(c)
		}
	}
}

// GetNonce retrieves the nonce from the context
func GetNonce(ctx context.Context) string {
	if val, ok := ctx.Value(NonceKey).(string); ok {
		return val
	}
	return ""
}

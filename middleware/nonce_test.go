package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"muafin_web_go/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGenerateNonce(t *testing.T) {
	nonce1, err := GenerateNonce()
	assert.NoError(t, err)
	assert.NotEmpty(t, nonce1)

	nonce2, err := GenerateNonce()
	assert.NoError(t, err)
	assert.NotEqual(t, nonce1, nonce2)
}

func TestContentSecurityPolicy(t *testing.T) {
	t.Run("ConfiguredOrigins", func(t *testing.T) {
		csp := ContentSecurityPolicy("abc", CSPSources{
			Scripts: []string{"https://unpkg.com", "https://challenges.cloudflare.com"},
			Frames:  []string{"https://challenges.cloudflare.com"},
		})
		assert.Contains(t, csp, "script-src 'self' 'nonce-abc' https://unpkg.com https://challenges.cloudflare.com;")
		assert.Contains(t, csp, "frame-src https://challenges.cloudflare.com")
		assert.Contains(t, csp, "form-action 'self'")
		assert.NotContains(t, csp, "unsafe-eval")
	})

	t.Run("NoThirdParties", func(t *testing.T) {
		csp := ContentSecurityPolicy("abc", CSPSources{})
		assert.Contains(t, csp, "script-src 'self' 'nonce-abc';")
		assert.Contains(t, csp, "frame-src 'none'")
		assert.NotContains(t, csp, "unpkg")
	})
}

func TestCSPSourcesFromConfig(t *testing.T) {
	cfg := &config.Config{
		CSPScriptOrigins: []string{"https://cdn.muafin.com"},
		CSPFrameOrigins:  []string{"https://challenges.cloudflare.com"},
	}
	sources := CSPSourcesFromConfig(cfg)
	assert.Equal(t, []string{"https://cdn.muafin.com"}, sources.Scripts)
	assert.Equal(t, []string{"https://challenges.cloudflare.com"}, sources.Frames)

	assert.Equal(t, CSPSources{}, CSPSourcesFromConfig(nil))
}

func TestCSPNonce(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	sources := CSPSources{Scripts: []string{"https://cdn.muafin.com"}}
	handler := CSPNonce(sources)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))

	nonce := c.Get(string(NonceKey)).(string)
	assert.NotEmpty(t, nonce)
	assert.Equal(t, nonce, GetNonce(c.Request().Context()))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Equal(t, ContentSecurityPolicy(nonce, sources), csp)
	assert.Contains(t, csp, "https://cdn.muafin.com")
}

func TestGetNonce(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), NonceKey, "test-nonce")
		assert.Equal(t, "test-nonce", GetNonce(ctx))
	})

	t.Run("NotExists", func(t *testing.T) {
		assert.Equal(t, "", GetNonce(context.Background()))
	})
}

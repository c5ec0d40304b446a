package services

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Version is stamped at build time with -ldflags "-X muafin_web_go/services.Version=..."
var Version = "dev"

// InitSentry configures error reporting. An empty dsn leaves it disabled.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          "muafin-web@" + Version,
		TracesSampleRate: 0,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// FlushSentry waits for buffered events before the program exits
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports err with extra context. It is a no-op when Sentry
// was never initialized.
func CaptureError(err error, context map[string]interface{}) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub()
	if hub == nil || hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range context {
			scope.SetExtra(k, v)
		}
		hub.CaptureException(err)
	})
}

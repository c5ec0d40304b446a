package handlers

import (
	"errors"
	"net/http"
	"time"

	"muafin_web_go/config"
	"muafin_web_go/db"
	"muafin_web_go/middleware"
	"muafin_web_go/models"
	"muafin_web_go/services"
	"muafin_web_go/services/leads"
	"muafin_web_go/services/metrics"
	"muafin_web_go/templates"

	"github.com/labstack/echo/v4"
)

// Set at startup
var (
	LeadStore   leads.Store
	LeadMetrics *metrics.LeadMetrics
)

// LeadPostHandler runs one submission of the lead form. HTMX requests get the
// form partial back with 200; plain posts get the whole page with a status
// matching the outcome.
func LeadPostHandler(c echo.Context) error {
	cfg, _ := c.Get("config").(*config.Config)
	if cfg == nil {
		cfg = &config.Config{}
	}
	lang := middleware.GetLocale(c)
	sourcePage := leadSourcePage(c)

	form := leads.NewForm(LeadStore)
	for _, name := range leads.FieldNames() {
		form.Set(name, c.FormValue(name))
	}

	requestType := leads.Normalize(form.Fields(), sourcePage).RequestType
	submission := services.SubmissionContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Language:  lang.String(),
	}

	var (
		status  int
		outcome models.SubmissionOutcome
		cause   error
		elapsed time.Duration
	)

	if ok, err := verifyCaptcha(c, cfg); !ok {
		c.Logger().Warnf("Turnstile verification failed: %v", err)
		form.Reject(leads.MessageCaptcha)
		status, outcome, cause = http.StatusForbidden, models.OutcomeRejected, err
	} else {
		start := time.Now()
		lead, err := form.Submit(c.Request().Context(), sourcePage)
		elapsed = time.Since(start)
		status, outcome = classifySubmission(err)
		cause = err

		switch outcome {
		case models.OutcomeSuccess:
			LeadMetrics.ObserveInsert(string(outcome), elapsed)
			services.NotifyNewLead(cfg, lead)
		case models.OutcomeSubmissionError:
			LeadMetrics.ObserveInsert(string(outcome), elapsed)
			c.Logger().Errorf("Lead submission failed: %v", err)
			services.CaptureError(err, map[string]interface{}{
				"source_page":  sourcePage,
				"request_type": requestType,
				"language":     lang.String(),
			})
		}
	}

	LeadMetrics.ObserveSubmission(string(outcome), metricRequestType(requestType))
	services.LogSubmissionAttempt(db.DB, services.NewSubmissionAttempt(submission, outcome, requestType, sourcePage, elapsed, cause))

	view := templates.NewLeadFormView(lang, form, middleware.GetCSRFToken(c), sourcePage, turnstileSiteKey(c))
	if isHTMX(c) {
		return render(c, templates.LeadForm(view))
	}
	return renderStatus(c, status, templates.Landing(templates.NewLandingView(lang, pageMeta(c), view)))
}

// classifySubmission maps a Submit result to the full-page status and the
// logged outcome
func classifySubmission(err error) (int, models.SubmissionOutcome) {
	var validationErr *leads.ValidationError
	var submissionErr *leads.SubmissionError

	switch {
	case err == nil:
		return http.StatusOK, models.OutcomeSuccess
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, models.OutcomeValidationError
	case errors.As(err, &submissionErr):
		return http.StatusBadGateway, models.OutcomeSubmissionError
	case errors.Is(err, leads.ErrSubmissionPending):
		return http.StatusConflict, models.OutcomeRejected
	default:
		return http.StatusInternalServerError, models.OutcomeSubmissionError
	}
}

// verifyCaptcha checks the Turnstile token when a secret key is configured
func verifyCaptcha(c echo.Context, cfg *config.Config) (bool, error) {
	if !cfg.TurnstileEnabled() {
		return true, nil
	}
	ok, err := services.VerifyTurnstileToken(c.Request().Context(), c.FormValue("cf-turnstile-response"), cfg.TurnstileSecretKey, c.RealIP())
	if err == nil && !ok {
		err = errors.New("turnstile rejected the token")
	}
	return ok, err
}

// leadSourcePage is the page the form was rendered on: the hidden
// source_page field, then the Referer path, then "/"
func leadSourcePage(c echo.Context) string {
	if p := localPath(c.FormValue("source_page")); p != "" {
		return p
	}
	if p := refererPath(c); p != "" {
		return p
	}
	return "/"
}

// metricRequestType keeps the metric label set bounded
func metricRequestType(requestType string) string {
	if models.IsValidRequestType(requestType) {
		return requestType
	}
	return "other"
}

// Package leads holds the lead capture form: local validation, payload
// normalization and the single insert into the remote lead table.
package leads

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"muafin_web_go/models"
	"muafin_web_go/services/i18n"
)

// Form field names, shared with the HTML form
const (
	FieldFullName     = "full_name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldBusinessName = "business_name"
	FieldBusinessType = "business_type"
	FieldRequestType  = "request_type"
	FieldMessage      = "message"
)

// Translation keys of the status messages
const (
	MessageSuccess = "form.success"
	MessageInvalid = "form.invalid"
	MessageFailed  = "form.error"
	MessageCaptcha = "form.captcha"
	MessageBusy    = "form.busy"
)

// Runs of characters that are not whitespace in the broad sense: ASCII
// space characters, \v, Unicode separators (NBSP, U+3000, U+2028...) and BOM.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+$`)

// FieldNames lists every editable field in form order
func FieldNames() []string {
	return []string{
		FieldFullName,
		FieldEmail,
		FieldPhone,
		FieldBusinessName,
		FieldBusinessType,
		FieldRequestType,
		FieldMessage,
	}
}

// Fields is the raw, user-entered state of the form.
type Fields struct {
	FullName     string
	Email        string
	Phone        string
	BusinessName string
	BusinessType string
	RequestType  string
	Message      string
}

// DefaultFields returns the empty form state.
func DefaultFields() Fields {
	return Fields{RequestType: models.RequestTypeEarlyAccess}
}

// Store inserts one lead record into the remote lead table.
type Store interface {
	InsertLead(ctx context.Context, lead *models.LeadSubmission) error
}

// StatusKind distinguishes success and error banners
type StatusKind string

const (
	StatusOK    StatusKind = "ok"
	StatusError StatusKind = "err"
)

// Status is the message shown above the form after a submit.
type Status struct {
	Kind StatusKind
	Key  string
}

// Text renders the status in lang.
func (s Status) Text(lang i18n.Language) string {
	return i18n.Translate(lang, s.Key)
}

// Form is one lead capture form. Field edits, status and the pending flag
// are owned by the form; Submit is the only operation touching the network.
type Form struct {
	store Store

	mu      sync.Mutex
	fields  Fields
	status  *Status
	pending atomic.Bool
}

// NewForm creates an empty form backed by store.
func NewForm(store Store) *Form {
	return &Form{
		store:  store,
		fields: DefaultFields(),
	}
}

// Set updates one field by its form name. Unknown names report false.
func (f *Form) Set(name, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldFullName:
		f.fields.FullName = value
	case FieldEmail:
		f.fields.Email = value
	case FieldPhone:
		f.fields.Phone = value
	case FieldBusinessName:
		f.fields.BusinessName = value
	case FieldBusinessType:
		f.fields.BusinessType = value
	case FieldRequestType:
		f.fields.RequestType = value
	case FieldMessage:
		f.fields.Message = value
	default:
		return false
	}
	return true
}

// Fields returns a copy of the current field values.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Status returns the current status message, nil when none is shown.
func (f *Form) Status() *Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == nil {
		return nil
	}
	s := *f.status
	return &s
}

// Pending reports whether a submission is in flight.
func (f *Form) Pending() bool {
	return f.pending.Load()
}

// Reject shows an error status without submitting, e.g. after a failed bot
// check. Field values are kept.
func (f *Form) Reject(key string) {
	f.setStatus(StatusError, key)
}

func (f *Form) setStatus(kind StatusKind, key string) {
	f.mu.Lock()
	f.status = &Status{Kind: kind, Key: key}
	f.mu.Unlock()
}

// Submit validates the form and, when valid, inserts exactly one lead.
// location is the page path the form was submitted from.
//
// On success the fields are reset and the returned lead is the record that
// was sent. On failure the fields are left untouched. Every outcome sets a
// status message; the returned error is a *ValidationError, a
// *SubmissionError or ErrSubmissionPending.
func (f *Form) Submit(ctx context.Context, location string) (lead *models.LeadSubmission, err error) {
	if f.pending.Load() {
		return nil, ErrSubmissionPending
	}

	f.mu.Lock()
	f.status = nil
	fields := f.fields
	f.mu.Unlock()

	if err := Validate(fields); err != nil {
		f.setStatus(StatusError, MessageInvalid)
		return nil, err
	}

	if !f.pending.CompareAndSwap(false, true) {
		return nil, ErrSubmissionPending
	}
	defer f.pending.Store(false)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[LEADS] Lead store panicked: %v", r)
			lead = nil
			err = &SubmissionError{Cause: fmt.Errorf("lead store panicked: %v", r)}
			f.setStatus(StatusError, MessageFailed)
		}
	}()

	payload := Normalize(fields, location)
	if err := f.store.InsertLead(ctx, payload); err != nil {
		log.Printf("[LEADS] Failed to submit lead (source %s): %v", payload.SourcePage, err)
		f.setStatus(StatusError, MessageFailed)
		return nil, &SubmissionError{Cause: err}
	}

	f.mu.Lock()
	f.fields = DefaultFields()
	f.status = &Status{Kind: StatusOK, Key: MessageSuccess}
	f.mu.Unlock()

	return payload, nil
}

// Validate checks the two required fields. No other field is validated.
func Validate(fields Fields) error {
	var invalid []string

	if strings.TrimSpace(fields.FullName) == "" {
		invalid = append(invalid, FieldFullName)
	}
	if !emailPattern.MatchString(strings.TrimSpace(fields.Email)) {
		invalid = append(invalid, FieldEmail)
	}

	if len(invalid) > 0 {
		return &ValidationError{Fields: invalid}
	}
	return nil
}

// Normalize builds the record sent to the lead table. Blank optional fields
// become nil, a blank request type becomes join_early_access and a blank
// location becomes "/".
func Normalize(fields Fields, location string) *models.LeadSubmission {
	requestType := strings.TrimSpace(fields.RequestType)
	if requestType == "" {
		requestType = models.RequestTypeEarlyAccess
	}

	sourcePage := strings.TrimSpace(location)
	if sourcePage == "" {
		sourcePage = "/"
	}

	return &models.LeadSubmission{
		FullName:     strings.TrimSpace(fields.FullName),
		Email:        strings.TrimSpace(fields.Email),
		Phone:        optional(fields.Phone),
		BusinessName: optional(fields.BusinessName),
		BusinessType: optional(fields.BusinessType),
		RequestType:  requestType,
		Message:      optional(fields.Message),
		SourcePage:   sourcePage,
	}
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

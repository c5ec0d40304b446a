package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionOutcome is the result of one lead form submission
type SubmissionOutcome string

const (
	OutcomeSuccess         SubmissionOutcome = "success"
	OutcomeValidationError SubmissionOutcome = "validation_error"
	OutcomeSubmissionError SubmissionOutcome = "submission_error"
	OutcomeRejected        SubmissionOutcome = "rejected" // CAPTCHA failed or already pending
)

// SubmissionAttempt is an immutable bookkeeping record of a lead form
// submission. It never holds the prospect's contact details.
type SubmissionAttempt struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_submission_created_at" json:"created_at"`

	Outcome     SubmissionOutcome `gorm:"not null;index:idx_submission_outcome" json:"outcome"`
	RequestType string            `json:"request_type,omitempty"`
	SourcePage  string            `json:"source_page,omitempty"`
	Language    string            `json:"language,omitempty"`

	// Request metadata
	IPHash    string `json:"ip_hash,omitempty"` // blake2b of the client IP
	UserAgent string `gorm:"type:text" json:"user_agent,omitempty"`

	ErrorDetail string `gorm:"type:text" json:"error_detail,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

// BeforeCreate hook to generate UUID
func (s *SubmissionAttempt) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for SubmissionAttempt model
func (SubmissionAttempt) TableName() string {
	return "submission_attempts"
}

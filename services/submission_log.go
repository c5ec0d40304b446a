package services

import (
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"muafin_web_go/models"

	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

// SubmissionContext contains request information recorded with an attempt
type SubmissionContext struct {
	IPAddress string
	UserAgent string
	Language  string
}

// HashIP pseudonymises a client IP so attempts from one client can be
// grouped without storing the address itself.
func HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:16])
}

// NewSubmissionAttempt builds the log record for one submission
func NewSubmissionAttempt(ctx SubmissionContext, outcome models.SubmissionOutcome, requestType, sourcePage string, duration time.Duration, cause error) *models.SubmissionAttempt {
	attempt := &models.SubmissionAttempt{
		Outcome:     outcome,
		RequestType: requestType,
		SourcePage:  sourcePage,
		Language:    ctx.Language,
		IPHash:      HashIP(ctx.IPAddress),
		UserAgent:   truncate(ctx.UserAgent, 512),
		DurationMS:  duration.Milliseconds(),
	}
	if cause != nil {
		attempt.ErrorDetail = truncate(cause.Error(), 1024)
	}
	return attempt
}

// RecordSubmissionAttempt stores attempt synchronously
func RecordSubmissionAttempt(db *gorm.DB, attempt *models.SubmissionAttempt) error {
	if db == nil {
		return fmt.Errorf("submission log not configured")
	}
	if err := db.Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record submission attempt: %w", err)
	}
	return nil
}

// LogSubmissionAttempt stores attempt in a goroutine to avoid blocking the
// request. A nil db disables the log.
func LogSubmissionAttempt(db *gorm.DB, attempt *models.SubmissionAttempt) {
	if db == nil || attempt == nil {
		return
	}

	go func() {
		if err := RecordSubmissionAttempt(db, attempt); err != nil {
			log.Printf("[SUBMISSIONS] %v", err)
		}
	}()
}

// CleanupOldSubmissionAttempts deletes attempts older than retention
func CleanupOldSubmissionAttempts(db *gorm.DB, retention time.Duration) (int64, error) {
	if db == nil {
		return 0, nil
	}

	cutoff := time.Now().Add(-retention)
	result := db.Where("created_at < ?", cutoff).Delete(&models.SubmissionAttempt{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old submission attempts: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListSubmissionAttempts returns attempts created at or after since, newest first
func ListSubmissionAttempts(db *gorm.DB, since time.Time) ([]models.SubmissionAttempt, error) {
	var attempts []models.SubmissionAttempt
	if err := db.Where("created_at >= ?", since).Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list submission attempts: %w", err)
	}
	return attempts, nil
}

package jobs

import (
	"log"
	"time"

	"muafin_web_go/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// RetentionSchedule runs the submission log cleanup at the top of every hour
const RetentionSchedule = "@hourly"

// StartScheduler schedules the submission log retention job. The caller
// stops the returned scheduler on shutdown.
func StartScheduler(database *gorm.DB, retention time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(RetentionSchedule, func() {
		PurgeSubmissionAttempts(database, retention)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Println("[CRON] Scheduler started")
	return c, nil
}

// PurgeSubmissionAttempts deletes attempts older than retention and returns
// how many were removed
func PurgeSubmissionAttempts(database *gorm.DB, retention time.Duration) int64 {
	deleted, err := services.CleanupOldSubmissionAttempts(database, retention)
	if err != nil {
		log.Printf("[JOB] Error cleaning up submission attempts: %v", err)
		return 0
	}
	if deleted > 0 {
		log.Printf("[JOB] Removed %d submission attempts older than %s", deleted, retention)
	}
	return deleted
}

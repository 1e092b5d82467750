package workers

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/progtrack-dev/progtrack/internal/models"
	"github.com/progtrack-dev/progtrack/internal/tasks"
)

// HandlePurgeExpiredVerifications deletes verification tokens that expired
// without ever being used
func HandlePurgeExpiredVerifications(ctx context.Context, t *asynq.Task, db *gorm.DB, log zerolog.Logger) error {
	result := db.WithContext(ctx).
		Where("expires_at < ? AND verified_at IS NULL", time.Now()).
		Delete(&models.EmailVerification{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Info().Int64("purged", result.RowsAffected).Msg("Purged expired verification tokens")
	}
	return nil
}

// StartMaintenanceScheduler enqueues the nightly cleanup task.
// Runs until the returned cron is stopped.
func StartMaintenanceScheduler(client *asynq.Client, log zerolog.Logger) *cron.Cron {
	c := cron.New()

	// 3am daily
	_, err := c.AddFunc("0 3 * * *", func() {
		if _, err := client.Enqueue(tasks.NewPurgeExpiredVerificationsTask()); err != nil {
			log.Error().Err(err).Msg("Failed to enqueue verification purge task")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to schedule verification purge")
		return c
	}

	c.Start()
	log.Info().Msg("Maintenance scheduler started")
	return c
}

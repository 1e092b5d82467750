package workers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/progtrack-dev/progtrack/internal/mailer"
	"github.com/progtrack-dev/progtrack/internal/models"
	"github.com/progtrack-dev/progtrack/internal/tasks"
)

// HandleSendVerificationEmail delivers an email-verification message for a
// freshly registered (or resend-requested) account
func HandleSendVerificationEmail(ctx context.Context, t *asynq.Task, db *gorm.DB, mail mailer.Mailer, appBaseURL string, log zerolog.Logger) error {
	payload, err := tasks.ParseVerificationEmailPayload(t)
	if err != nil {
		return err
	}

	var user models.User
	if err := models.FindByID(db, payload.UserID, &user); err != nil {
		// User deleted between enqueue and delivery - nothing to do
		if err == gorm.ErrRecordNotFound {
			log.Warn().Str("user_id", payload.UserID).Msg("User gone, skipping verification email")
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	verifyURL := fmt.Sprintf("%s/auth/verify?token=%s", appBaseURL, url.QueryEscape(payload.Token))

	if err := mail.SendVerification(ctx, payload.Email, user.Username, verifyURL); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send verification email")
		return err
	}

	log.Info().Str("email", payload.Email).Str("user_id", user.ID).Msg("Verification email sent")
	return nil
}

package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Email delivery tasks
	TypeSendVerificationEmail = "email:send_verification"

	// Maintenance tasks
	TypePurgeExpiredVerifications = "verifications:purge_expired"
)

// VerificationEmailPayload is the payload for verification email tasks
type VerificationEmailPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// NewSendVerificationEmailTask creates a task to deliver a verification email
func NewSendVerificationEmailTask(userID, email, token string) (*asynq.Task, error) {
	payload, err := json.Marshal(VerificationEmailPayload{
		UserID: userID,
		Email:  email,
		Token:  token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeSendVerificationEmail, payload, asynq.Queue("critical")), nil
}

// NewPurgeExpiredVerificationsTask creates a task to delete expired verification tokens
func NewPurgeExpiredVerificationsTask() *asynq.Task {
	return asynq.NewTask(TypePurgeExpiredVerifications, nil, asynq.Queue("low"))
}

// ParseVerificationEmailPayload parses the payload from an Asynq task
func ParseVerificationEmailPayload(task *asynq.Task) (VerificationEmailPayload, error) {
	var payload VerificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

package workers

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/progtrack-dev/progtrack/internal/models"
	"github.com/progtrack-dev/progtrack/internal/tasks"
)

// recordingMailer captures sent emails for assertions
type recordingMailer struct {
	to        []string
	verifyURL []string
}

func (m *recordingMailer) SendVerification(ctx context.Context, to, username, verifyURL string) error {
	m.to = append(m.to, to)
	m.verifyURL = append(m.verifyURL, verifyURL)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestHandleSendVerificationEmail(t *testing.T) {
	db := newTestDB(t)

	user := &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	task, err := tasks.NewSendVerificationEmailTask(user.ID, user.Email, "tok en+123")
	if err != nil {
		t.Fatalf("failed to build task: %v", err)
	}

	mail := &recordingMailer{}
	err = HandleSendVerificationEmail(context.Background(), task, db, mail, "https://fit.example.com", zerolog.Nop())
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if len(mail.to) != 1 || mail.to[0] != "alice@example.com" {
		t.Fatalf("expected one email to alice, got %v", mail.to)
	}
	url := mail.verifyURL[0]
	if !strings.HasPrefix(url, "https://fit.example.com/auth/verify?token=") {
		t.Errorf("unexpected verify URL: %s", url)
	}
	// The token must be query-escaped
	if strings.Contains(url, " ") || !strings.Contains(url, "tok+en%2B123") {
		t.Errorf("expected escaped token in URL, got %s", url)
	}
}

func TestHandleSendVerificationEmail_UserGone(t *testing.T) {
	db := newTestDB(t)

	task, err := tasks.NewSendVerificationEmailTask("missing-user", "gone@example.com", "token")
	if err != nil {
		t.Fatalf("failed to build task: %v", err)
	}

	mail := &recordingMailer{}
	err = HandleSendVerificationEmail(context.Background(), task, db, mail, "https://fit.example.com", zerolog.Nop())
	if err != nil {
		t.Fatalf("deleted user must not be an error: %v", err)
	}
	if len(mail.to) != 0 {
		t.Errorf("expected no email for a deleted user, got %v", mail.to)
	}
}

func TestHandlePurgeExpiredVerifications(t *testing.T) {
	db := newTestDB(t)

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	now := time.Now()
	verifiedAt := now.Add(-2 * time.Hour)
	rows := []*models.EmailVerification{
		{UserID: user.ID, Email: user.Email, Token: "expired-unused", ExpiresAt: now.Add(-time.Hour)},
		{UserID: user.ID, Email: user.Email, Token: "still-valid", ExpiresAt: now.Add(time.Hour)},
		{UserID: user.ID, Email: user.Email, Token: "expired-but-used", ExpiresAt: now.Add(-time.Hour), VerifiedAt: &verifiedAt},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create verification: %v", err)
		}
	}

	task := tasks.NewPurgeExpiredVerificationsTask()
	if err := HandlePurgeExpiredVerifications(context.Background(), task, db, zerolog.Nop()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	var remaining []models.EmailVerification
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("failed to list verifications: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(remaining))
	}
	for _, row := range remaining {
		if row.Token == "expired-unused" {
			t.Error("expected the expired unused token to be purged")
		}
	}
}

package models

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser      = "USER"
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a registered account
type User struct {
	BaseModel
	Username     string    `json:"username" gorm:"unique;not null"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role" gorm:"not null;default:USER"`
	Verified     bool      `json:"verified" gorm:"not null;default:false"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// FullName returns the display name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// IsAdmin reports whether the user has the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Program represents a training program in the catalog
type Program struct {
	BaseModel
	Title          string    `json:"title" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text;not null"`
	Levels         string    `json:"-" gorm:"column:levels"` // comma-separated, see LevelList
	Goals          string    `json:"-" gorm:"column:goals"`  // comma-separated, see GoalList
	Equipment      string    `json:"equipment"`
	ProgramLength  int       `json:"program_length" gorm:"not null"`   // weeks
	TimePerWorkout int       `json:"time_per_workout" gorm:"not null"` // minutes
	TotalExercises int       `json:"total_exercises" gorm:"not null"`
	CreatedByID    string    `json:"created_by_id" gorm:"index"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	CreatedBy *User             `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL"`
	PlanDays  []WeeklyPlanEntry `json:"plan_days,omitempty" gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
}

// LevelList splits the stored levels column into a slice
func (p *Program) LevelList() []string {
	return splitCSV(p.Levels)
}

// GoalList splits the stored goals column into a slice
func (p *Program) GoalList() []string {
	return splitCSV(p.Goals)
}

// SetLevels stores a level slice into the levels column
func (p *Program) SetLevels(levels []string) {
	p.Levels = joinCSV(levels)
}

// SetGoals stores a goal slice into the goals column
func (p *Program) SetGoals(goals []string) {
	p.Goals = joinCSV(goals)
}

// IsOwnedBy reports whether the given user created this program
func (p *Program) IsOwnedBy(userID string) bool {
	return p.CreatedByID != "" && p.CreatedByID == userID
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinCSV(parts []string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}

// WeeklyPlanEntry represents one day of a program's weekly schedule
type WeeklyPlanEntry struct {
	BaseModel
	ProgramID string `json:"program_id" gorm:"not null;index"`
	DayOfWeek string `json:"day_of_week" gorm:"not null"` // Mon, Tue, Wed, Thu, Fri, Sat, Sun
	Content   string `json:"content" gorm:"type:text"`
}

// EmailVerification represents a pending email verification token
type EmailVerification struct {
	BaseModel
	UserID     string     `json:"user_id" gorm:"not null;index"`
	Email      string     `json:"email" gorm:"not null;index"`
	Token      string     `json:"-" gorm:"unique;not null"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	VerifiedAt *time.Time `json:"verified_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// IsExpired reports whether the token is past its expiry
func (v *EmailVerification) IsExpired() bool {
	return time.Now().After(v.ExpiresAt)
}

// IsVerified reports whether the token has already been consumed
func (v *EmailVerification) IsVerified() bool {
	return v.VerifiedAt != nil
}

// MarkVerified records the verification time
func (v *EmailVerification) MarkVerified() {
	now := time.Now()
	v.VerifiedAt = &now
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&User{}, &Program{}, &WeeklyPlanEntry{}, &EmailVerification{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

package client

import "time"

// UserInfo represents the signed-in user as returned by the API
type UserInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token   string    `json:"token"`
	Type    string    `json:"type"`
	User    *UserInfo `json:"user"`
	Message string    `json:"message"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	Message               string `json:"message"`
	Email                 string `json:"email"`
	VerificationEmailSent bool   `json:"verificationEmailSent"`
}

// VerificationResponse represents the email verification response
type VerificationResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Email   string `json:"email,omitempty"`
}

// ApiResponse is the generic success/message envelope
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Program represents a training program in the catalog
type Program struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Levels             []string  `json:"levels"`
	Goals              []string  `json:"goals"`
	Equipment          string    `json:"equipment"`
	ProgramLength      int       `json:"programLength"`
	TimePerWorkout     int       `json:"timePerWorkout"`
	TotalExercises     int       `json:"totalExercises"`
	CreatedByUsername  string    `json:"createdByUsername,omitempty"`
	CreatorDisplayName string    `json:"creatorDisplayName"`
	Public             bool      `json:"public"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProgramRequest represents a program create/update request body
type ProgramRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Levels         []string       `json:"levels"`
	Goals          []string       `json:"goals"`
	Equipment      string         `json:"equipment"`
	ProgramLength  int            `json:"programLength"`
	TimePerWorkout int            `json:"timePerWorkout"`
	TotalExercises int            `json:"totalExercises"`
	WeeklyPlan     []PlanDayEntry `json:"weeklyPlan,omitempty"`
}

// PlanDayEntry represents one day of a weekly plan
type PlanDayEntry struct {
	DayOfWeek string `json:"dayOfWeek"`
	Content   string `json:"content"`
}

// WeeklyPlan represents a program's weekly schedule
type WeeklyPlan struct {
	ProgramID string         `json:"programId"`
	Entries   []PlanDayEntry `json:"entries"`
}

// SearchParams represents catalog filter parameters
type SearchParams struct {
	Equipment   string
	Level       string
	Goal        string
	MaxDuration int // minutes per workout, 0 = no limit
}

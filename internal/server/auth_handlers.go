package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/progtrack-dev/progtrack/internal/auth"
	"github.com/progtrack-dev/progtrack/internal/models"
	"github.com/progtrack-dev/progtrack/internal/tasks"
)

const (
	verificationTokenTTL = 24 * time.Hour

	// Max verification emails per address per hour
	resendRateLimit = 3
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RegisterResponse represents a registration response
type RegisterResponse struct {
	Message               string `json:"message"`
	Email                 string `json:"email"`
	VerificationEmailSent bool   `json:"verificationEmailSent"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token   string    `json:"token"`
	Type    string    `json:"type"`
	User    *UserInfo `json:"user"`
	Message string    `json:"message"`
}

// VerificationResponse represents an email verification response
type VerificationResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Email   string `json:"email,omitempty"`
}

// ResendVerificationRequest represents a resend-verification request
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ApiResponse is the generic success/message envelope
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// UserInfo represents user information returned to clients
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

func userInfoFrom(user *models.User) *UserInfo {
	return &UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Role:      user.Role,
		Verified:  user.Verified,
	}
}

// generateVerificationToken returns a 64 hex character random token
func generateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// issueVerification creates a fresh verification token for the user,
// replacing any pending one, and enqueues the delivery task
func (s *Server) issueVerification(user *models.User) (bool, error) {
	// Drop any pending token for this user
	if err := s.db.Where("user_id = ? AND verified_at IS NULL", user.ID).
		Delete(&models.EmailVerification{}).Error; err != nil {
		return false, err
	}

	token, err := generateVerificationToken()
	if err != nil {
		return false, err
	}

	verification := &models.EmailVerification{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.db.Create(verification).Error; err != nil {
		return false, err
	}

	task, err := tasks.NewSendVerificationEmailTask(user.ID, user.Email, token)
	if err != nil {
		return false, err
	}

	if _, err := s.asynqClient.Enqueue(task); err != nil {
		// Token stays valid; the user can request a resend once the queue recovers
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to enqueue verification email")
		return false, nil
	}

	return true, nil
}

// @Summary Register
// @Description Create a new account and send an email verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} RegisterResponse
// @Router /api/auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, RegisterResponse{
			Message: "Invalid registration data: " + err.Error(),
			Email:   req.Email,
		})
		return
	}

	// Reject duplicate email / username up front for a friendlier message
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, RegisterResponse{Message: "Email already registered", Email: req.Email})
		return
	}

	if err := s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check username")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, RegisterResponse{Message: "Username already taken", Email: req.Email})
		return
	}

	// Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
		Verified:     false,
	}

	if err := s.db.Create(user).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	emailSent, err := s.issueVerification(user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue verification token")
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")

	message := "Registration successful! Please check your email for verification."
	if !emailSent {
		message = "Registration successful, but the verification email could not be sent. Please request a new one."
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message:               message,
		Email:                 user.Email,
		VerificationEmailSent: emailSent,
	})
}

// @Summary Login
// @Description Authenticate with email or username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Find user by email or username
	var user models.User
	if err := s.db.Where("email = ? OR username = ?", req.EmailOrUsername, req.EmailOrUsername).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email/username or password"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Verify password
	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email/username or password"})
		return
	}

	// Unverified accounts cannot log in
	if !user.Verified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please verify your email before logging in"})
		return
	}

	// Generate JWT token
	token, err := auth.GenerateToken(user.ID, user.Username, user.Role, user.Verified)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Type:    "Bearer",
		User:    userInfoFrom(&user),
		Message: "Login successful",
	})
}

// @Summary Verify email
// @Description Consume an email verification token
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} VerificationResponse
// @Failure 400 {object} VerificationResponse
// @Router /api/auth/verify [get]
func (s *Server) verifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, VerificationResponse{Message: "Verification token is required"})
		return
	}

	var verification models.EmailVerification
	if err := s.db.Where("token = ?", token).First(&verification).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, VerificationResponse{Message: "Invalid verification token"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to look up verification token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if verification.IsVerified() {
		c.JSON(http.StatusBadRequest, VerificationResponse{Message: "This email is already verified", Email: verification.Email})
		return
	}
	if verification.IsExpired() {
		c.JSON(http.StatusBadRequest, VerificationResponse{Message: "Verification token has expired. Please request a new one."})
		return
	}

	verification.MarkVerified()

	// Mark both the token and the user inside one transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&verification).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", verification.UserID).
			Update("verified", true).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", verification.UserID).Msg("Failed to verify email")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	s.logger.Info().Str("user_id", verification.UserID).Str("email", verification.Email).Msg("Email verified")

	c.JSON(http.StatusOK, VerificationResponse{
		Message: "Email verified successfully! You can now login.",
		Success: true,
		Email:   verification.Email,
	})
}

// @Summary Resend verification email
// @Description Send a fresh verification link to an unverified account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "Resend request"
// @Success 200 {object} ApiResponse
// @Failure 400 {object} ApiResponse
// @Router /api/auth/resend-verification [post]
func (s *Server) resendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Message: "A valid email address is required"})
		return
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, ApiResponse{Message: "No account found for this email"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.Verified {
		c.JSON(http.StatusBadRequest, ApiResponse{Message: "This email is already verified"})
		return
	}

	// Rate limit: max N verification emails per hour per address
	var recent int64
	if err := s.db.Model(&models.EmailVerification{}).
		Where("email = ? AND created_at > ?", req.Email, time.Now().Add(-time.Hour)).
		Count(&recent).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to count recent verifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if recent >= resendRateLimit {
		c.JSON(http.StatusBadRequest, ApiResponse{Message: "Too many verification emails requested. Please try again later."})
		return
	}

	emailSent, err := s.issueVerification(&user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue verification token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !emailSent {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, ApiResponse{
		Success: true,
		Message: "Verification email sent successfully",
	})
}

// @Summary Get current user
// @Description Get information about the currently authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserInfo
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (s *Server) getCurrentUser(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := s.db.Where("id = ?", sessionData.UserID).First(&user).Error; err != nil {
		s.logger.Error().Err(err).Str("user_id", sessionData.UserID).Msg("Failed to find user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, userInfoFrom(&user))
}

// @Summary List users
// @Description List all users (admin only)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserInfo
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/users [get]
func (s *Server) listUsers(c *gin.Context) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	infos := make([]*UserInfo, len(users))
	for i := range users {
		infos[i] = userInfoFrom(&users[i])
	}

	c.JSON(http.StatusOK, infos)
}

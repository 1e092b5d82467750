package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/progtrack-dev/progtrack/internal/models"
)

// ProgramRequest represents a program create/update request
type ProgramRequest struct {
	Title          string         `json:"title" binding:"required,max=200"`
	Description    string         `json:"description" binding:"required"`
	Levels         []string       `json:"levels" binding:"required,min=1"`
	Goals          []string       `json:"goals" binding:"required,min=1"`
	Equipment      string         `json:"equipment" binding:"required"`
	ProgramLength  int            `json:"programLength" binding:"required,gt=0"`
	TimePerWorkout int            `json:"timePerWorkout" binding:"required,gt=0"`
	TotalExercises int            `json:"totalExercises" binding:"required,gt=0"`
	WeeklyPlan     []PlanDayEntry `json:"weeklyPlan,omitempty"`
}

// PlanDayEntry represents one day of a weekly plan
type PlanDayEntry struct {
	DayOfWeek string `json:"dayOfWeek" validate:"dayofweek"`
	Content   string `json:"content"`
}

// ProgramResponse represents a program returned to clients
type ProgramResponse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Levels             []string  `json:"levels"`
	Goals              []string  `json:"goals"`
	Equipment          string    `json:"equipment"`
	ProgramLength      int       `json:"programLength"`
	TimePerWorkout     int       `json:"timePerWorkout"`
	TotalExercises     int       `json:"totalExercises"`
	CreatedByUserID    string    `json:"createdByUserId,omitempty"`
	CreatedByUsername  string    `json:"createdByUsername,omitempty"`
	CreatorDisplayName string    `json:"creatorDisplayName"`
	Public             bool      `json:"public"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// WeeklyPlanResponse represents a program's weekly schedule
type WeeklyPlanResponse struct {
	ProgramID string         `json:"programId"`
	Entries   []PlanDayEntry `json:"entries"`
}

func programResponseFrom(p *models.Program) *ProgramResponse {
	resp := &ProgramResponse{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Levels:             p.LevelList(),
		Goals:              p.GoalList(),
		Equipment:          p.Equipment,
		ProgramLength:      p.ProgramLength,
		TimePerWorkout:     p.TimePerWorkout,
		TotalExercises:     p.TotalExercises,
		CreatorDisplayName: "Anonymous",
		Public:             p.CreatedByID == "",
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}

	if p.CreatedBy != nil {
		resp.CreatedByUserID = p.CreatedBy.ID
		resp.CreatedByUsername = p.CreatedBy.Username
		resp.CreatorDisplayName = p.CreatedBy.FullName()
		resp.Public = false
	} else if p.CreatedByID != "" {
		resp.CreatedByUserID = p.CreatedByID
		resp.Public = false
	}

	return resp
}

// @Summary List programs
// @Description List all training programs in the catalog
// @Tags programs
// @Produce json
// @Success 200 {array} ProgramResponse
// @Router /api/programs [get]
func (s *Server) listPrograms(c *gin.Context) {
	var programs []models.Program
	if err := s.db.Preload("CreatedBy").Order("created_at DESC").Find(&programs).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list programs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]*ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = programResponseFrom(&programs[i])
	}

	c.JSON(http.StatusOK, responses)
}

// @Summary Get program
// @Description Get a single program by ID
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} ProgramResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/programs/{id} [get]
func (s *Server) getProgram(c *gin.Context) {
	var program models.Program
	if err := s.db.Preload("CreatedBy").Where("id = ?", c.Param("id")).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, programResponseFrom(&program))
}

// @Summary Search programs
// @Description Filter programs by equipment, level, goal and workout duration
// @Tags programs
// @Produce json
// @Param equipment query string false "Equipment"
// @Param level query string false "Level"
// @Param goal query string false "Goal"
// @Param maxDuration query int false "Max minutes per workout"
// @Success 200 {array} ProgramResponse
// @Router /api/programs/search [get]
func (s *Server) searchPrograms(c *gin.Context) {
	query := s.db.Preload("CreatedBy").Order("created_at DESC")

	if equipment := c.Query("equipment"); equipment != "" {
		query = query.Where("equipment = ?", equipment)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("levels LIKE ?", "%"+level+"%")
	}
	if goal := c.Query("goal"); goal != "" {
		query = query.Where("goals LIKE ?", "%"+goal+"%")
	}
	if maxDuration := c.Query("maxDuration"); maxDuration != "" {
		minutes, err := strconv.Atoi(maxDuration)
		if err != nil || minutes <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "maxDuration must be a positive integer"})
			return
		}
		query = query.Where("time_per_workout <= ?", minutes)
	}

	var programs []models.Program
	if err := query.Find(&programs).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to search programs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	responses := make([]*ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = programResponseFrom(&programs[i])
	}

	c.JSON(http.StatusOK, responses)
}

// @Summary Create program
// @Description Create a new training program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProgramRequest true "Program request"
// @Success 201 {object} ProgramResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/programs [post]
func (s *Server) createProgram(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		s.logger.Error().Msg("Session data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := s.validatePlanDays(req.WeeklyPlan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	program := &models.Program{
		Title:          req.Title,
		Description:    req.Description,
		Equipment:      req.Equipment,
		ProgramLength:  req.ProgramLength,
		TimePerWorkout: req.TimePerWorkout,
		TotalExercises: req.TotalExercises,
		CreatedByID:    sessionData.UserID,
	}
	program.SetLevels(req.Levels)
	program.SetGoals(req.Goals)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(program).Error; err != nil {
			return err
		}
		return s.savePlanDays(tx, program.ID, req.WeeklyPlan)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	s.logger.Info().
		Str("program_id", program.ID).
		Str("created_by", sessionData.UserID).
		Msg("Program created")

	// Reload with creator for the response
	s.db.Preload("CreatedBy").Where("id = ?", program.ID).First(program)

	c.JSON(http.StatusCreated, programResponseFrom(program))
}

// @Summary Update program
// @Description Update an existing program (owner or admin)
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param request body ProgramRequest true "Program request"
// @Success 200 {object} ProgramResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/programs/{id} [put]
func (s *Server) updateProgram(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		s.logger.Error().Msg("Session data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var program models.Program
	if err := s.db.Where("id = ?", c.Param("id")).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !program.IsOwnedBy(sessionData.UserID) && !sessionData.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own programs"})
		return
	}

	var req ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := s.validatePlanDays(req.WeeklyPlan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	program.Title = req.Title
	program.Description = req.Description
	program.Equipment = req.Equipment
	program.ProgramLength = req.ProgramLength
	program.TimePerWorkout = req.TimePerWorkout
	program.TotalExercises = req.TotalExercises
	program.SetLevels(req.Levels)
	program.SetGoals(req.Goals)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&program).Error; err != nil {
			return err
		}
		if req.WeeklyPlan == nil {
			return nil
		}
		// Replace the plan wholesale when one is provided
		if err := tx.Where("program_id = ?", program.ID).Delete(&models.WeeklyPlanEntry{}).Error; err != nil {
			return err
		}
		return s.savePlanDays(tx, program.ID, req.WeeklyPlan)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program"})
		return
	}

	s.logger.Info().
		Str("program_id", program.ID).
		Str("updated_by", sessionData.UserID).
		Msg("Program updated")

	s.db.Preload("CreatedBy").Where("id = ?", program.ID).First(&program)

	c.JSON(http.StatusOK, programResponseFrom(&program))
}

// @Summary Delete program
// @Description Delete a program (owner or admin)
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/programs/{id} [delete]
func (s *Server) deleteProgram(c *gin.Context) {
	sessionData, exists := GetSessionData(c)
	if !exists {
		s.logger.Error().Msg("Session data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var program models.Program
	if err := s.db.Where("id = ?", c.Param("id")).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !program.IsOwnedBy(sessionData.UserID) && !sessionData.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own programs"})
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", program.ID).Delete(&models.WeeklyPlanEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&program).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}

	s.logger.Info().
		Str("program_id", program.ID).
		Str("deleted_by", sessionData.UserID).
		Msg("Program deleted")

	c.Status(http.StatusNoContent)
}

// @Summary Get weekly plan
// @Description Get a program's day-by-day schedule
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} WeeklyPlanResponse
// @Failure 404 {object} map[string]interface{}
// @Router /api/programs/{id}/weekly-plan [get]
func (s *Server) getWeeklyPlan(c *gin.Context) {
	programID := c.Param("id")

	var program models.Program
	if err := s.db.Where("id = ?", programID).First(&program).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find program")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var entries []models.WeeklyPlanEntry
	if err := s.db.Where("program_id = ?", programID).Order("id ASC").Find(&entries).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load weekly plan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := WeeklyPlanResponse{
		ProgramID: programID,
		Entries:   make([]PlanDayEntry, len(entries)),
	}
	for i, entry := range entries {
		resp.Entries[i] = PlanDayEntry{DayOfWeek: entry.DayOfWeek, Content: entry.Content}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) validatePlanDays(days []PlanDayEntry) error {
	for i := range days {
		if err := s.validator.Struct(&days[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) savePlanDays(tx *gorm.DB, programID string, days []PlanDayEntry) error {
	for _, day := range days {
		entry := &models.WeeklyPlanEntry{
			ProgramID: programID,
			DayOfWeek: day.DayOfWeek,
			Content:   day.Content,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

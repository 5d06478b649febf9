// internal/api/training_log_handler.go
package api

import (
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TrainingLogHandler struct {
	trainingLogService service.TrainingLogService
	logger             *zap.SugaredLogger
	now                func() time.Time
}

func NewTrainingLogHandler(trainingLogService service.TrainingLogService, logger *zap.SugaredLogger) *TrainingLogHandler {
	return &TrainingLogHandler{
		trainingLogService: trainingLogService,
		logger:             logger,
		now:                time.Now,
	}
}

// --- DTOs ---

// LogWorkoutRequest is the body for logging a workout.
type LogWorkoutRequest struct {
	Type   string     `json:"type" binding:"required"`
	Weight *float64   `json:"weight" binding:"required,gte=0"`
	Date   *time.Time `json:"date" binding:"required"` // e.g., "2024-06-10T10:00:00Z"
	Sets   *int       `json:"sets" binding:"omitempty,gt=0"`
}

// WorkoutRecordResponse is the DTO for one training log entry.
type WorkoutRecordResponse struct {
	ID          string    `json:"id"`
	ExerciseID  string    `json:"exerciseId"`
	Weight      float64   `json:"weight"`
	Date        time.Time `json:"date"`
	Sets        *int      `json:"sets"`        // null when not recorded
	DisplaySets int       `json:"displaySets"` // Sets, or 1 when not recorded
}

// TrainingLogResponse is the DTO for a loaded window.
type TrainingLogResponse struct {
	Reference string                             `json:"reference"`
	LoadedAt  time.Time                          `json:"loadedAt"`
	Window    []string                           `json:"window"`
	Flat      []WorkoutRecordResponse            `json:"flat"`
	ByDay     map[string][]WorkoutRecordResponse `json:"byDay"`
}

func MapWorkoutRecordToResponse(r domain.WorkoutRecord) WorkoutRecordResponse {
	return WorkoutRecordResponse{
		ID:          r.ID,
		ExerciseID:  r.ExerciseID,
		Weight:      r.Weight,
		Date:        r.Date,
		Sets:        r.Sets,
		DisplaySets: r.DisplaySets(),
	}
}

func MapWorkoutRecordsToResponse(records []domain.WorkoutRecord) []WorkoutRecordResponse {
	responses := make([]WorkoutRecordResponse, len(records))
	for i, r := range records {
		responses[i] = MapWorkoutRecordToResponse(r)
	}
	return responses
}

func MapSnapshotToResponse(s *service.TrainingLogSnapshot, loc *time.Location) TrainingLogResponse {
	resp := TrainingLogResponse{
		Reference: string(domain.DayKeyOf(s.Reference, loc)),
		LoadedAt:  s.LoadedAt,
		Window:    make([]string, len(s.Result.Window)),
		Flat:      MapWorkoutRecordsToResponse(s.Result.Flat),
		ByDay:     make(map[string][]WorkoutRecordResponse, len(s.Result.ByDay)),
	}
	for i, day := range s.Result.Window {
		resp.Window[i] = string(day)
	}
	for day, records := range s.Result.ByDay {
		resp.ByDay[string(day)] = MapWorkoutRecordsToResponse(records)
	}
	return resp
}

// --- Handler Methods ---

// GetTrainingLog godoc
// @Summary Load my training log
// @Description Loads the window of days ending at `date` (default today) and replaces the current log on success.
// @Tags TrainingLog
// @Produce json
// @Param userId path string true "User ID"
// @Param date query string false "Reference day, YYYY-MM-DD"
// @Success 200 {object} TrainingLogResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Failure 502 {object} gin.H "Workout log store unavailable"
// @Router /users/{userId}/training-log [get]
func (h *TrainingLogHandler) GetTrainingLog(c *gin.Context) {
	userID := c.Param("userId")
	loc := h.trainingLogService.Location()

	reference := h.now().In(loc)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := domain.ParseDayKey(dateStr, loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
			return
		}
		reference = parsed
	}

	snapshot, err := h.trainingLogService.Refresh(c.Request.Context(), userID, reference)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUserID):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRemoteFetch):
			h.logger.Errorw("training log refresh failed", "userId", userID, "error", err)
			abortWithError(c, http.StatusBadGateway, "Failed to load training log.")
		default:
			h.logger.Errorw("training log refresh failed", "userId", userID, "error", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to load training log.")
		}
		return
	}
	c.JSON(http.StatusOK, MapSnapshotToResponse(snapshot, loc))
}

// GetCurrentTrainingLog godoc
// @Summary Get my last loaded training log
// @Tags TrainingLog
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} TrainingLogResponse
// @Failure 404 {object} gin.H "Nothing loaded yet"
// @Router /users/{userId}/training-log/current [get]
func (h *TrainingLogHandler) GetCurrentTrainingLog(c *gin.Context) {
	snapshot, err := h.trainingLogService.Current(c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrNoCurrentLog) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, MapSnapshotToResponse(snapshot, h.trainingLogService.Location()))
}

// LogWorkout godoc
// @Summary Log a workout
// @Tags TrainingLog
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param workout body LogWorkoutRequest true "Workout entry"
// @Success 201 {object} gin.H "ID of the new entry"
// @Failure 400 {object} gin.H "Validation error"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /users/{userId}/workouts [post]
func (h *TrainingLogHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID := c.Param("userId")
	id, err := h.trainingLogService.LogWorkout(c.Request.Context(), userID, service.WorkoutLogInput{
		ExerciseID: req.Type,
		Weight:     *req.Weight,
		Date:       *req.Date,
		Sets:       req.Sets,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidWorkoutLog) || errors.Is(err, service.ErrInvalidUserID) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Errorw("failed to log workout", "userId", userID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to log workout.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

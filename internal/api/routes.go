package api

import (
	"alcyxob/training-log/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the Gin engine with recovery and zap request logging.
func NewRouter(logger *zap.SugaredLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	return router
}

func SetupRoutes(
	router *gin.Engine,
	trainingLogService service.TrainingLogService,
	logger *zap.SugaredLogger,
) {
	trainingLogHandler := NewTrainingLogHandler(trainingLogService, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	userGroup := apiV1.Group("/users/:userId")
	userGroup.Use(RequireUserID())
	{
		// GET /api/v1/users/{userId}/training-log?date=YYYY-MM-DD
		userGroup.GET("/training-log", trainingLogHandler.GetTrainingLog)
		// GET /api/v1/users/{userId}/training-log/current
		userGroup.GET("/training-log/current", trainingLogHandler.GetCurrentTrainingLog)
		// POST /api/v1/users/{userId}/workouts
		userGroup.POST("/workouts", trainingLogHandler.LogWorkout)
	}
}

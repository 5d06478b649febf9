package service

import (
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/repository"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoCurrentLog      = errors.New("no training log loaded for this user yet")
	ErrInvalidWorkoutLog = errors.New("invalid workout log")
)

// TrainingLogSnapshot is the last successful load for a user.
type TrainingLogSnapshot struct {
	Reference time.Time
	LoadedAt  time.Time
	Result    *domain.LoadResult
}

// WorkoutLogInput carries a new entry to log.
type WorkoutLogInput struct {
	ExerciseID string
	Weight     float64
	Date       time.Time
	Sets       *int
}

type TrainingLogService interface {
	// Refresh loads the window ending at reference and, on success only, replaces the user's current log.
	Refresh(ctx context.Context, userID string, reference time.Time) (*TrainingLogSnapshot, error)
	// Current returns the last successful load for the user.
	Current(userID string) (*TrainingLogSnapshot, error)
	// LogWorkout appends an entry under the calendar day of its date.
	LogWorkout(ctx context.Context, userID string, input WorkoutLogInput) (string, error)
	// Location is the calendar days are cut in.
	Location() *time.Location
}

// trainingLogService implements TrainingLogService.
type trainingLogService struct {
	loader   WorkoutLoader
	store    repository.WorkoutLogStore
	location *time.Location
	logger   *zap.SugaredLogger
	now      func() time.Time

	mu      sync.RWMutex
	current map[string]*TrainingLogSnapshot
}

// NewTrainingLogService creates a new instance of trainingLogService.
func NewTrainingLogService(loader WorkoutLoader, store repository.WorkoutLogStore, location *time.Location, logger *zap.SugaredLogger) TrainingLogService {
	if location == nil {
		location = time.UTC
	}
	return &trainingLogService{
		loader:   loader,
		store:    store,
		location: location,
		logger:   logger,
		now:      time.Now,
		current:  make(map[string]*TrainingLogSnapshot),
	}
}

func (s *trainingLogService) Refresh(ctx context.Context, userID string, reference time.Time) (*TrainingLogSnapshot, error) {
	result, err := s.loader.Load(ctx, userID, reference)
	if err != nil {
		// The previous snapshot stays in place.
		return nil, err
	}

	snapshot := &TrainingLogSnapshot{
		Reference: reference,
		LoadedAt:  s.now(),
		Result:    result,
	}
	s.mu.Lock()
	s.current[userID] = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

func (s *trainingLogService) Current(userID string) (*TrainingLogSnapshot, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.current[userID]
	if !ok {
		return nil, ErrNoCurrentLog
	}
	return snapshot, nil
}

func (s *trainingLogService) LogWorkout(ctx context.Context, userID string, input WorkoutLogInput) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}
	if err := input.validate(); err != nil {
		return "", err
	}

	fields := map[string]interface{}{
		repository.FieldType:   input.ExerciseID,
		repository.FieldWeight: input.Weight,
		repository.FieldDate:   input.Date.UTC(),
	}
	if input.Sets != nil {
		fields[repository.FieldSets] = *input.Sets
	}

	dayKey := domain.DayKeyOf(input.Date, s.location)
	id, err := s.store.Append(ctx, userID, dayKey, fields)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			return "", ErrInvalidWorkoutLog
		}
		return "", err
	}
	s.logger.Infow("workout logged", "userId", userID, "dayKey", dayKey, "id", id, "exercise", input.ExerciseID)
	return id, nil
}

func (s *trainingLogService) Location() *time.Location {
	return s.location
}

func (in WorkoutLogInput) validate() error {
	switch {
	case in.ExerciseID == "":
		return fmt.Errorf("%w: exercise type is required", ErrInvalidWorkoutLog)
	case in.Weight < 0 || math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0):
		return fmt.Errorf("%w: weight must be a non-negative number", ErrInvalidWorkoutLog)
	case in.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalidWorkoutLog)
	case in.Sets != nil && *in.Sets <= 0:
		return fmt.Errorf("%w: sets must be positive", ErrInvalidWorkoutLog)
	}
	return nil
}

package service

import (
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrInvalidUserID = errors.New("user ID is required")
	ErrRemoteFetch   = errors.New("failed to fetch workout logs")
)

// LoadError reports a failed load. It matches ErrRemoteFetch with errors.Is
// and unwraps to the underlying cause. Which day failed is not retained.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRemoteFetch, e.Err)
}

func (e *LoadError) Is(target error) bool {
	return target == ErrRemoteFetch
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoaderOptions configures a WorkoutLoader.
type LoaderOptions struct {
	WindowDays     int            // Days ending at the reference date, inclusive; defaults to 8
	MaxConcurrency int            // Concurrent day fetches; 0 means WindowDays
	Location       *time.Location // Calendar used to cut days; defaults to UTC
}

// WorkoutLoader loads a user's training log for a window of days.
type WorkoutLoader interface {
	Load(ctx context.Context, userID string, referenceDate time.Time) (*domain.LoadResult, error)
}

// windowedWorkoutLoader implements WorkoutLoader with one concurrent fetch per day.
type windowedWorkoutLoader struct {
	store          repository.WorkoutLogStore
	windowDays     int
	maxConcurrency int
	location       *time.Location
	logger         *zap.SugaredLogger
}

// NewWindowedWorkoutLoader creates a loader over the given store.
func NewWindowedWorkoutLoader(store repository.WorkoutLogStore, opts LoaderOptions, logger *zap.SugaredLogger) WorkoutLoader {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 8
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = opts.WindowDays
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &windowedWorkoutLoader{
		store:          store,
		windowDays:     opts.WindowDays,
		maxConcurrency: opts.MaxConcurrency,
		location:       opts.Location,
		logger:         logger,
	}
}

// Load fetches every day of the window concurrently and merges the results.
// Any failed fetch fails the whole load and no records are returned.
func (l *windowedWorkoutLoader) Load(ctx context.Context, userID string, referenceDate time.Time) (*domain.LoadResult, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	window := domain.Window(referenceDate, l.windowDays, l.location)
	// One slot per day, so goroutines never share a slice.
	batches := make([][]domain.WorkoutRecord, len(window))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.maxConcurrency)
	for i, dayKey := range window {
		g.Go(func() error {
			raws, err := l.store.FetchDay(gctx, userID, dayKey)
			if err != nil {
				return fmt.Errorf("day %s: %w", dayKey, err)
			}
			batches[i] = l.parseBatch(userID, dayKey, raws)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Warnw("training log load failed", "userId", userID, "reference", domain.DayKeyOf(referenceDate, l.location), "error", err)
		return nil, &LoadError{Err: err}
	}
	// errgroup does not report a parent cancellation that raced the last fetch.
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Err: err}
	}

	result := merge(window, batches, l.location)
	l.logger.Debugw("training log loaded", "userId", userID, "from", window[0], "to", window[len(window)-1], "records", len(result.Flat))
	return result, nil
}

func (l *windowedWorkoutLoader) parseBatch(userID string, dayKey domain.DayKey, raws []repository.RawRecord) []domain.WorkoutRecord {
	records := make([]domain.WorkoutRecord, 0, len(raws))
	for _, raw := range raws {
		record, err := ParseRecord(raw)
		if err != nil {
			l.logger.Debugw("skipping workout log record", "userId", userID, "dayKey", dayKey, "id", raw.ID, "reason", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// merge concatenates the day batches oldest first and groups records by
// the calendar day of their own date. Repeated document keys keep their
// first occurrence.
func merge(window []domain.DayKey, batches [][]domain.WorkoutRecord, loc *time.Location) *domain.LoadResult {
	result := &domain.LoadResult{
		Window: window,
		Flat:   []domain.WorkoutRecord{},
		ByDay:  make(map[domain.DayKey][]domain.WorkoutRecord),
	}
	seen := make(map[string]struct{})
	for _, batch := range batches {
		for _, record := range batch {
			if _, dup := seen[record.ID]; dup {
				continue
			}
			seen[record.ID] = struct{}{}
			result.Flat = append(result.Flat, record)
			day := domain.DayKeyOf(record.Date, loc)
			result.ByDay[day] = append(result.ByDay[day], record)
		}
	}
	return result
}

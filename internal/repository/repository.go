package repository

import (
	"alcyxob/training-log/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInvalidInput = RepositoryError("invalid input")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Field names of a workout log document as stored remotely.
const (
	FieldType   = "type"
	FieldWeight = "weight"
	FieldDate   = "date"
	FieldSets   = "sets"
)

// RawRecord is a document as returned by the store: its key plus loosely typed fields.
// Field values keep whatever shape the backend decoded them into.
type RawRecord struct {
	ID     string
	Fields map[string]interface{}
}

// WorkoutLogStore defines the interface for the remote per-day workout log.
type WorkoutLogStore interface {
	// FetchDay returns every record the user logged under dayKey, in the store's batch order.
	// An empty day is not an error.
	FetchDay(ctx context.Context, userID string, dayKey domain.DayKey) ([]RawRecord, error)

	// Append stores a new record under dayKey and returns its document key.
	Append(ctx context.Context, userID string, dayKey domain.DayKey, fields map[string]interface{}) (string, error)
}

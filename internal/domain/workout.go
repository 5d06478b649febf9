package domain

import (
	"time"
)

// DefaultDisplaySets is shown when a record does not carry a set count.
const DefaultDisplaySets = 1

// WorkoutRecord represents one logged exercise entry.
type WorkoutRecord struct {
	ID         string    `json:"id"`         // Source document key
	ExerciseID string    `json:"exerciseId"` // e.g., "bench_press"
	Weight     float64   `json:"weight"`     // Load used, never negative
	Date       time.Time `json:"date"`
	Sets       *int      `json:"sets"` // nil when the store did not record a usable count
}

// DisplaySets returns the set count to show, falling back to DefaultDisplaySets.
func (r WorkoutRecord) DisplaySets() int {
	if r.Sets == nil {
		return DefaultDisplaySets
	}
	return *r.Sets
}

// LoadResult is the outcome of loading a window of days.
// Both collections are built fresh on every load.
type LoadResult struct {
	Window []DayKey                   // Days queried, oldest first
	Flat   []WorkoutRecord            // All records, days concatenated oldest first
	ByDay  map[DayKey][]WorkoutRecord // Flat partitioned by each record's own calendar day
}

// Len returns the number of records in the result.
func (r *LoadResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Flat)
}

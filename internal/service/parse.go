package service

import (
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/repository"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reasons a raw record is skipped. They never fail a load.
var (
	errMissingID       = errors.New("record has no document key")
	errBadExerciseType = errors.New("exercise type missing or not a string")
	errBadWeight       = errors.New("weight missing or not a non-negative number")
	errBadDate         = errors.New("date missing or not a timestamp")
)

// ParseRecord converts a raw store record into a WorkoutRecord.
// The type, weight and date fields are required. A missing or unusable set
// count does not reject the record; Sets is left nil instead.
func ParseRecord(raw repository.RawRecord) (domain.WorkoutRecord, error) {
	if raw.ID == "" {
		return domain.WorkoutRecord{}, errMissingID
	}

	exercise, ok := raw.Fields[repository.FieldType].(string)
	if !ok || exercise == "" {
		return domain.WorkoutRecord{}, errBadExerciseType
	}

	weight, ok := toFloat(raw.Fields[repository.FieldWeight])
	if !ok || weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return domain.WorkoutRecord{}, errBadWeight
	}

	date, ok := toTime(raw.Fields[repository.FieldDate])
	if !ok {
		return domain.WorkoutRecord{}, errBadDate
	}

	record := domain.WorkoutRecord{
		ID:         raw.ID,
		ExerciseID: exercise,
		Weight:     weight,
		Date:       date,
	}
	if sets, ok := toInt(raw.Fields[repository.FieldSets]); ok && sets > 0 {
		record.Sets = &sets
	}
	return record, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toInt accepts integral values only; 3.5 sets is not a set count.
func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case primitive.DateTime:
		return t.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0), true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

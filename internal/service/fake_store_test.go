package service

import (
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/repository"
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeWorkoutLogStore is an in-memory WorkoutLogStore keyed by user and day.
type fakeWorkoutLogStore struct {
	mu        sync.Mutex
	days      map[string][]repository.RawRecord
	fetchErrs map[domain.DayKey]error
	fetched   []domain.DayKey
	appended  []appendCall
	delay     time.Duration

	inFlight    int
	maxInFlight int
}

type appendCall struct {
	userID string
	dayKey domain.DayKey
	fields map[string]interface{}
}

func newFakeStore() *fakeWorkoutLogStore {
	return &fakeWorkoutLogStore{
		days:      make(map[string][]repository.RawRecord),
		fetchErrs: make(map[domain.DayKey]error),
	}
}

func dayIndex(userID string, dayKey domain.DayKey) string {
	return userID + "/" + string(dayKey)
}

func (f *fakeWorkoutLogStore) put(userID string, dayKey domain.DayKey, records ...repository.RawRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days[dayIndex(userID, dayKey)] = append(f.days[dayIndex(userID, dayKey)], records...)
}

func (f *fakeWorkoutLogStore) failDay(dayKey domain.DayKey, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErrs[dayKey] = err
}

func (f *fakeWorkoutLogStore) FetchDay(ctx context.Context, userID string, dayKey domain.DayKey) ([]repository.RawRecord, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, dayKey)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	err := f.fetchErrs[dayKey]
	records := append([]repository.RawRecord(nil), f.days[dayIndex(userID, dayKey)]...)
	delay := f.delay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (f *fakeWorkoutLogStore) Append(ctx context.Context, userID string, dayKey domain.DayKey, fields map[string]interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, appendCall{userID: userID, dayKey: dayKey, fields: fields})
	id := fmt.Sprintf("id-%d", len(f.appended))
	f.days[dayIndex(userID, dayKey)] = append(f.days[dayIndex(userID, dayKey)], repository.RawRecord{ID: id, Fields: fields})
	return id, nil
}

func (f *fakeWorkoutLogStore) fetchedDays() []domain.DayKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.DayKey(nil), f.fetched...)
}

func (f *fakeWorkoutLogStore) peakInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

package service

import (
	"alcyxob/training-log/internal/domain"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(store *fakeWorkoutLogStore, loc *time.Location) *trainingLogService {
	logger := zap.NewNop().Sugar()
	loader := NewWindowedWorkoutLoader(store, LoaderOptions{Location: loc}, logger)
	svc := NewTrainingLogService(loader, store, loc, logger).(*trainingLogService)
	svc.now = func() time.Time { return june10 }
	return svc
}

func TestRefresh_ReplacesCurrentOnSuccess(t *testing.T) {
	store := newFakeStore()
	store.put("u1", "2024-06-10", validRaw("a", "bench_press", 80, june10))
	svc := newTestService(store, time.UTC)

	_, err := svc.Current("u1")
	assert.ErrorIs(t, err, ErrNoCurrentLog)

	snapshot, err := svc.Refresh(context.Background(), "u1", june10)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Result.Len())
	assert.Equal(t, june10, snapshot.LoadedAt)

	current, err := svc.Current("u1")
	require.NoError(t, err)
	assert.Same(t, snapshot, current)
}

func TestRefresh_FailureKeepsPreviousResult(t *testing.T) {
	store := newFakeStore()
	store.put("u1", "2024-06-10", validRaw("a", "bench_press", 80, june10))
	svc := newTestService(store, time.UTC)

	first, err := svc.Refresh(context.Background(), "u1", june10)
	require.NoError(t, err)

	store.failDay("2024-06-04", errors.New("unavailable"))
	store.put("u1", "2024-06-10", validRaw("b", "squat", 100, june10))
	_, err = svc.Refresh(context.Background(), "u1", june10)
	require.ErrorIs(t, err, ErrRemoteFetch)

	current, err := svc.Current("u1")
	require.NoError(t, err)
	assert.Same(t, first, current)
	assert.Equal(t, 1, current.Result.Len())
}

func TestRefresh_UsersAreIndependent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.UTC)

	_, err := svc.Refresh(context.Background(), "u1", june10)
	require.NoError(t, err)

	_, err = svc.Current("u2")
	assert.ErrorIs(t, err, ErrNoCurrentLog)
}

func TestCurrent_EmptyUserID(t *testing.T) {
	svc := newTestService(newFakeStore(), time.UTC)

	_, err := svc.Current("")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestLogWorkout_AppendsUnderLocalDay(t *testing.T) {
	store := newFakeStore()
	loc := time.FixedZone("UTC+3", 3*60*60)
	svc := newTestService(store, loc)
	sets := 4
	// 22:30 UTC on the 9th is already the 10th at UTC+3.
	at := time.Date(2024, 6, 9, 22, 30, 0, 0, time.UTC)

	id, err := svc.LogWorkout(context.Background(), "u1", WorkoutLogInput{
		ExerciseID: "deadlift", Weight: 140, Date: at, Sets: &sets,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, store.appended, 1)
	call := store.appended[0]
	assert.Equal(t, "u1", call.userID)
	assert.Equal(t, domain.DayKey("2024-06-10"), call.dayKey)
	assert.Equal(t, "deadlift", call.fields["type"])
	assert.Equal(t, 140.0, call.fields["weight"])
	assert.Equal(t, 4, call.fields["sets"])
}

func TestLogWorkout_ThenRefreshSeesEntry(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.UTC)

	_, err := svc.LogWorkout(context.Background(), "u1", WorkoutLogInput{ExerciseID: "squat", Weight: 90, Date: june10})
	require.NoError(t, err)

	snapshot, err := svc.Refresh(context.Background(), "u1", june10)
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Result.Len())
	assert.Nil(t, snapshot.Result.Flat[0].Sets)
	assert.Len(t, snapshot.Result.ByDay["2024-06-10"], 1)
}

func TestLogWorkout_Validation(t *testing.T) {
	zero := 0
	cases := map[string]WorkoutLogInput{
		"missing type":    {Weight: 10, Date: june10},
		"negative weight": {ExerciseID: "squat", Weight: -1, Date: june10},
		"missing date":    {ExerciseID: "squat", Weight: 10},
		"zero sets":       {ExerciseID: "squat", Weight: 10, Date: june10, Sets: &zero},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, time.UTC)

			_, err := svc.LogWorkout(context.Background(), "u1", input)

			assert.ErrorIs(t, err, ErrInvalidWorkoutLog)
			assert.Empty(t, store.appended)
		})
	}

	_, err := newTestService(newFakeStore(), time.UTC).LogWorkout(context.Background(), "", WorkoutLogInput{ExerciseID: "squat", Date: june10})
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

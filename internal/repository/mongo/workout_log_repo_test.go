package mongo

import (
	"alcyxob/training-log/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func TestFetchDay(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns raw records without bookkeeping fields", func(mt *mtest.T) {
		repo := NewMongoWorkoutLogRepository(mt.DB, zap.NewNop().Sugar())
		id := primitive.NewObjectID()
		at := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + workoutLogCollectionName

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "userId", Value: "u1"},
				{Key: "dayKey", Value: "2024-06-10"},
				{Key: "type", Value: "bench_press"},
				{Key: "weight", Value: int32(80)},
				{Key: "date", Value: primitive.NewDateTimeFromTime(at)},
				{Key: "sets", Value: int32(3)},
			}),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		records, err := repo.FetchDay(context.Background(), "u1", "2024-06-10")

		require.NoError(mt, err)
		require.Len(mt, records, 1)
		assert.Equal(mt, id.Hex(), records[0].ID)
		assert.Equal(mt, "bench_press", records[0].Fields["type"])
		assert.Equal(mt, int32(80), records[0].Fields["weight"])
		assert.Equal(mt, primitive.NewDateTimeFromTime(at), records[0].Fields["date"])
		assert.NotContains(mt, records[0].Fields, "userId")
		assert.NotContains(mt, records[0].Fields, "dayKey")
	})

	mt.Run("empty day", func(mt *mtest.T) {
		repo := NewMongoWorkoutLogRepository(mt.DB, zap.NewNop().Sugar())
		ns := mt.DB.Name() + "." + workoutLogCollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		records, err := repo.FetchDay(context.Background(), "u1", "2024-06-10")

		require.NoError(mt, err)
		assert.NotNil(mt, records)
		assert.Empty(mt, records)
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := NewMongoWorkoutLogRepository(mt.DB, zap.NewNop().Sugar())
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		_, err := repo.FetchDay(context.Background(), "u1", "2024-06-10")

		assert.Error(mt, err)
	})
}

func TestAppend(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts document", func(mt *mtest.T) {
		repo := NewMongoWorkoutLogRepository(mt.DB, zap.NewNop().Sugar())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Append(context.Background(), "u1", "2024-06-10", map[string]interface{}{
			repository.FieldType:   "squat",
			repository.FieldWeight: 100.0,
			repository.FieldDate:   time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		})

		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("requires user and day", func(mt *mtest.T) {
		repo := NewMongoWorkoutLogRepository(mt.DB, zap.NewNop().Sugar())

		_, err := repo.Append(context.Background(), "u1", "", map[string]interface{}{})

		assert.ErrorIs(mt, err, repository.ErrInvalidInput)
	})

	mt.Run("write error", func(mt *mtest.T) {
		repo := NewMongoWorkoutLogRepository(mt.DB, zap.NewNop().Sugar())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Append(context.Background(), "u1", "2024-06-10", map[string]interface{}{"type": "squat"})

		assert.Error(mt, err)
	})
}

func TestToRawRecord_StringKey(t *testing.T) {
	raw := toRawRecord(bson.M{"_id": "legacy-key", "type": "row", "createdAt": time.Now()})

	assert.Equal(t, "legacy-key", raw.ID)
	assert.Equal(t, map[string]interface{}{"type": "row"}, raw.Fields)
}

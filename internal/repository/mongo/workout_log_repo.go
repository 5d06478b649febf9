// internal/repository/mongo/workout_log_repo.go
package mongo

import (
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const workoutLogCollectionName = "workout_logs"

// Bookkeeping fields that address a document but are not part of the record itself.
const (
	fieldID        = "_id"
	fieldUserID    = "userId"
	fieldDayKey    = "dayKey"
	fieldCreatedAt = "createdAt"
)

// mongoWorkoutLogRepository implements repository.WorkoutLogStore
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
	logger     *zap.SugaredLogger
}

// NewMongoWorkoutLogRepository creates a new workout log repository backed by MongoDB.
func NewMongoWorkoutLogRepository(db *mongo.Database, logger *zap.SugaredLogger) repository.WorkoutLogStore {
	return &mongoWorkoutLogRepository{
		collection: db.Collection(workoutLogCollectionName),
		logger:     logger,
	}
}

// FetchDay retrieves all records a user logged under one day key, oldest first.
// Documents are decoded as bson.M so malformed fields reach the parser untouched.
func (r *mongoWorkoutLogRepository) FetchDay(ctx context.Context, userID string, dayKey domain.DayKey) ([]repository.RawRecord, error) {
	filter := bson.M{fieldUserID: userID, fieldDayKey: string(dayKey)}
	findOptions := options.Find().SetSort(bson.D{{Key: repository.FieldDate, Value: 1}, {Key: fieldID, Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find workout logs for %s: %w", dayKey, err)
	}
	defer cursor.Close(ctx)

	records := []repository.RawRecord{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode workout log for %s: %w", dayKey, err)
		}
		records = append(records, toRawRecord(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate workout logs for %s: %w", dayKey, err)
	}
	return records, nil
}

// Append inserts a new workout log document and returns its ObjectID hex.
func (r *mongoWorkoutLogRepository) Append(ctx context.Context, userID string, dayKey domain.DayKey, fields map[string]interface{}) (string, error) {
	if userID == "" || dayKey == "" {
		return "", fmt.Errorf("%w: workout log requires userId and dayKey", repository.ErrInvalidInput)
	}

	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	id := primitive.NewObjectID()
	doc[fieldID] = id
	doc[fieldUserID] = userID
	doc[fieldDayKey] = string(dayKey)
	doc[fieldCreatedAt] = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert workout log: %w", err)
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("failed to convert inserted workout log ID")
	}
	r.logger.Debugw("workout log inserted", "userId", userID, "dayKey", dayKey, "id", insertedID.Hex())
	return insertedID.Hex(), nil
}

// toRawRecord splits a stored document into its key and record fields.
func toRawRecord(doc bson.M) repository.RawRecord {
	raw := repository.RawRecord{Fields: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		switch k {
		case fieldID:
			raw.ID = documentKey(v)
		case fieldUserID, fieldDayKey, fieldCreatedAt:
		default:
			raw.Fields[k] = v
		}
	}
	return raw
}

func documentKey(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Serves FetchDay: equality on user and day, sorted by date
			Keys:    bson.D{{Key: fieldUserID, Value: 1}, {Key: fieldDayKey, Value: 1}, {Key: repository.FieldDate, Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for collection %s: %w", collection.Name(), err)
	}
	return nil
}

// WorkoutLogCollection returns the collection the repository reads from.
func WorkoutLogCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(workoutLogCollectionName)
}

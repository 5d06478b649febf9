package storage

import (
	"alcyxob/training-log/internal/domain"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultPrefix is the key prefix day documents are stored under.
const DefaultPrefix = "workout-logs"

// objectAPI is the subset of the S3 client the day-document store needs.
type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// DayObjectKey builds the object key holding one user's records for one day,
// e.g. "workout-logs/u1/2024-06-10.json".
func DayObjectKey(prefix, userID string, dayKey domain.DayKey) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return path.Join(prefix, userID, string(dayKey)+".json")
}

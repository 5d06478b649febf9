package storage

import (
	"alcyxob/training-log/internal/config"
	"alcyxob/training-log/internal/domain"
	"alcyxob/training-log/internal/repository"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const recordIDField = "id"

// s3WorkoutLogStore implements repository.WorkoutLogStore with one JSON document per user and day.
// Append is a read-modify-write of the day object and assumes a single writer per user.
type s3WorkoutLogStore struct {
	client     objectAPI
	bucketName string
	prefix     string
	logger     *zap.SugaredLogger
}

// NewS3Storage creates a workout log store over an S3-compatible bucket.
func NewS3Storage(ctx context.Context, cfg config.S3Config, prefix string, logger *zap.SugaredLogger) (repository.WorkoutLogStore, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	endpoint := endpointURL(cfg)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS SDK config: %w", err)
	}

	// Path-style addressing is required by most S3-compatible services
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	logger.Infow("S3 workout log store initialized", "endpoint", endpoint, "bucket", cfg.BucketName, "prefix", prefix)
	return newS3WorkoutLogStore(s3Client, cfg.BucketName, prefix, logger), nil
}

// endpointURL adds a scheme to bare host:port endpoints according to UseSSL.
func endpointURL(cfg config.S3Config) string {
	if cfg.Endpoint == "" || strings.Contains(cfg.Endpoint, "://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

func newS3WorkoutLogStore(client objectAPI, bucketName, prefix string, logger *zap.SugaredLogger) *s3WorkoutLogStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &s3WorkoutLogStore{
		client:     client,
		bucketName: bucketName,
		prefix:     prefix,
		logger:     logger,
	}
}

// FetchDay reads the user's day document. A missing object is an empty day.
func (s *s3WorkoutLogStore) FetchDay(ctx context.Context, userID string, dayKey domain.DayKey) ([]repository.RawRecord, error) {
	docs, err := s.readDay(ctx, userID, dayKey)
	if err != nil {
		return nil, err
	}

	records := make([]repository.RawRecord, 0, len(docs))
	for i, doc := range docs {
		raw := repository.RawRecord{Fields: make(map[string]interface{}, len(doc))}
		for k, v := range doc {
			if k == recordIDField {
				if id, ok := v.(string); ok {
					raw.ID = id
				}
				continue
			}
			raw.Fields[k] = v
		}
		if raw.ID == "" {
			// Hand-written documents may omit ids; the position within the day is stable.
			raw.ID = fmt.Sprintf("%s/%s#%d", userID, dayKey, i)
		}
		records = append(records, raw)
	}
	return records, nil
}

// Append adds a record with a fresh uuid to the user's day document.
func (s *s3WorkoutLogStore) Append(ctx context.Context, userID string, dayKey domain.DayKey, fields map[string]interface{}) (string, error) {
	if userID == "" || dayKey == "" {
		return "", fmt.Errorf("%w: workout log requires userId and dayKey", repository.ErrInvalidInput)
	}

	docs, err := s.readDay(ctx, userID, dayKey)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	doc := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc[recordIDField] = id
	docs = append(docs, doc)

	body, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("encode day document: %w", err)
	}

	key := DayObjectKey(s.prefix, userID, dayKey)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Errorw("failed to write day document", "bucket", s.bucketName, "key", key, "error", err)
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return id, nil
}

func (s *s3WorkoutLogStore) readDay(ctx context.Context, userID string, dayKey domain.DayKey) ([]map[string]interface{}, error) {
	key := DayObjectKey(s.prefix, userID, dayKey)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return []map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []map[string]interface{}{}, nil
	}

	// UseNumber keeps integer and float values distinguishable for the parser.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var docs []map[string]interface{}
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return docs, nil
}

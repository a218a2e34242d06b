package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
)

const archivePrefix = "runs"

// ResultArchive keeps the full JSON result of every processing run in MinIO
type ResultArchive struct {
	client *minio.Client
	bucket string
	logger *zap.Logger

	maxElapsed time.Duration
}

// ArchivedRun is the document written for each run
type ArchivedRun struct {
	Run    *entities.ProcessingRun `json:"run"`
	Result any                     `json:"result"`
}

// NewResultArchive creates a MinIO client and makes sure the bucket exists
func NewResultArchive(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*ResultArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	archive := &ResultArchive{
		client:     minioClient,
		bucket:     cfg.BucketName,
		logger:     logger,
		maxElapsed: 20 * time.Second,
	}

	if err := archive.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	if logger != nil {
		logger.Info("✅ Result archive ready",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("bucket", cfg.BucketName))
	}
	return archive, nil
}

// ensureBucket creates the bucket when it is missing. Archives stay private.
func (a *ResultArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads the run and its result as one JSON object and returns the object name.
// Transient failures are retried with exponential backoff.
func (a *ResultArchive) Put(ctx context.Context, run *entities.ProcessingRun, result any) (string, error) {
	if run == nil {
		return "", fmt.Errorf("run is required")
	}

	data, err := encodeArchive(run, result)
	if err != nil {
		return "", err
	}
	objectName := ObjectName(run)

	upload := func() error {
		_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		if err == nil {
			return nil
		}
		if !jobcontext.IsRetryableError(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = a.maxElapsed

	notify := func(err error, wait time.Duration) {
		if a.logger != nil {
			a.logger.Warn("⚠️ Archive upload failed, retrying",
				append(jobcontext.LogFields(ctx),
					zap.String("object", objectName),
					zap.Duration("wait", wait),
					zap.Error(err))...)
		}
	}

	if err := backoff.RetryNotify(upload, backoff.WithContext(bo, ctx), notify); err != nil {
		return "", errors.ErrStorageFailed("put", err)
	}
	return objectName, nil
}

// Get downloads an archived run
func (a *ResultArchive) Get(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.ErrStorageFailed("get", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	return data, nil
}

// List returns the archived objects of one meeting
func (a *ResultArchive) List(ctx context.Context, meetingID string) ([]string, error) {
	var files []string

	objectCh := a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    archivePrefix + "/" + safeSegment(meetingID) + "/",
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		files = append(files, object.Key)
	}
	return files, nil
}

// ObjectName is runs/<meeting>/<yyyy>/<mm>/<dd>/<run id>.json
func ObjectName(run *entities.ProcessingRun) string {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return fmt.Sprintf("%s/%s/%s/%s.json",
		archivePrefix,
		safeSegment(run.MeetingID),
		created.UTC().Format("2006/01/02"),
		run.ID.String())
}

// safeSegment keeps meeting ids from adding path levels
func safeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(s)
}

func encodeArchive(run *entities.ProcessingRun, result any) ([]byte, error) {
	data, err := json.MarshalIndent(ArchivedRun{Run: run, Result: result}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive: %w", err)
	}
	return data, nil
}

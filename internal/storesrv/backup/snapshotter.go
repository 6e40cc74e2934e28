// Package backup periodically snapshots every document row to an
// S3-compatible bucket. Snapshots are plain JSON dumps, one object per run.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dvelarde/vigia/internal/logging"
	sc "github.com/dvelarde/vigia/internal/storesrv/config"
	"github.com/dvelarde/vigia/internal/storesrv/documents"
)

// Seams for tests; the AWS SDK is awkward to fake at the interface level.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

type Snapshotter struct {
	docs   documents.Repository
	config *sc.Config
	logger logging.Logger
	now    func() time.Time
}

func NewSnapshotter(docs documents.Repository, cfg *sc.Config, logger logging.Logger) *Snapshotter {
	return &Snapshotter{
		docs:   docs,
		config: cfg,
		logger: logger.With("module", "backup"),
		now:    time.Now,
	}
}

func (s *Snapshotter) storageKey() string {
	d := s.now().UTC()
	return fmt.Sprintf("snapshots/%d/%02d/%02d/%v.json", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Snapshotter) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return client, nil
}

// Snapshot dumps every stored row into a single JSON object in the bucket
// and returns its key.
func (s *Snapshotter) Snapshot(ctx context.Context) (string, error) {
	rows, err := s.docs.List(ctx)
	if err != nil {
		return "", fmt.Errorf("reading documents: %w", err)
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	client, err := s.getClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := s.storageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	return key, nil
}

// Run snapshots on a fixed interval until the context is cancelled. Upload
// failures are logged and retried on the next tick.
func (s *Snapshotter) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.BackupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			key, err := s.Snapshot(ctx)
			if err != nil {
				s.logger.Error(ctx, "snapshot failed", "error", err)
				continue
			}
			s.logger.Info(ctx, "snapshot uploaded", "key", key)
		}
	}
}

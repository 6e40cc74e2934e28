package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/dvelarde/vigia/internal/logging"
	sc "github.com/dvelarde/vigia/internal/storesrv/config"
	"github.com/dvelarde/vigia/internal/storesrv/documents"
)

type stubDocs struct {
	rows []documents.Row
	err  error
}

func (s *stubDocs) Get(ctx context.Context, table string, id int64) (*documents.Row, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocs) List(ctx context.Context) ([]documents.Row, error) {
	return s.rows, s.err
}

func (s *stubDocs) Update(ctx context.Context, row *documents.Row) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubDocs) Insert(ctx context.Context, row *documents.Row) error {
	return errors.New("not implemented")
}

func newSnapshotter(docs documents.Repository) *Snapshotter {
	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "admin",
		S3RootPassword: "secretpassword",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "vigia",
		BackupInterval: time.Hour,
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewSnapshotter(docs, cfg, logger)
	s.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestSnapshot_UploadsDump(t *testing.T) {
	docs := &stubDocs{rows: []documents.Row{
		{Table: "ordenes", ID: 1, Payload: []byte(`{"ordenes":[]}`)},
	}}
	s := newSnapshotter(docs)

	var gotBucket, gotKey string
	var gotBody []byte

	origPut := putObject
	defer func() { putObject = origPut }()
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotBucket = *in.Bucket
		gotKey = *in.Key
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		gotBody = b
		return &s3.PutObjectOutput{}, nil
	}

	key, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, gotKey, key)
	require.Equal(t, "vigia", gotBucket)
	require.True(t, strings.HasPrefix(key, "snapshots/2024/06/15/"))
	require.True(t, strings.HasSuffix(key, ".json"))

	var rows []documents.Row
	require.NoError(t, json.Unmarshal(gotBody, &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "ordenes", rows[0].Table)
}

func TestSnapshot_ListError(t *testing.T) {
	s := newSnapshotter(&stubDocs{err: errors.New("db down")})

	_, err := s.Snapshot(context.Background())
	require.ErrorContains(t, err, "db down")
}

func TestSnapshot_ConfigLoadError(t *testing.T) {
	s := newSnapshotter(&stubDocs{})

	orig := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = orig }()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := s.Snapshot(context.Background())
	require.ErrorContains(t, err, "load-fail")
}

func TestSnapshot_UploadError(t *testing.T) {
	s := newSnapshotter(&stubDocs{})

	origPut := putObject
	defer func() { putObject = origPut }()
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("put-fail")
	}

	_, err := s.Snapshot(context.Background())
	require.ErrorContains(t, err, "uploading snapshot")
}

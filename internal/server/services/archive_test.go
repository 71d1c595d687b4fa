package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/schedvault/schedvault/internal/server/config"
	"github.com/schedvault/schedvault/internal/server/events"
)

func newArchiverForTest(t *testing.T) (*EventArchiver, *events.Journal) {
	t.Helper()
	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "schedvault-events",
	}
	j := events.NewJournal()
	return NewEventArchiver(j, cfg, nopLogger{}), j
}

func stubAWSSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
}

func TestEventArchiver_Flush_Empty(t *testing.T) {
	a, _ := newArchiverForTest(t)

	key, err := a.Flush(context.Background())
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestEventArchiver_Flush_UploadsJSONL(t *testing.T) {
	a, j := newArchiverForTest(t)
	stubAWSSeams(t)

	var uploaded string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		require.Equal(t, "schedvault-events", *in.Bucket)
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		uploaded = string(b)
		return &s3.PutObjectOutput{}, nil
	}

	ctx := context.Background()
	j.Publish(ctx, events.RecordCreated{ID: "evt-1", Creator: "alice"})
	j.Publish(ctx, events.AvailabilityChecked{ID: "evt-1", Available: true})

	key, err := a.Flush(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "events/"), key)
	assert.True(t, strings.HasSuffix(key, ".jsonl"), key)

	lines := strings.Split(strings.TrimSpace(uploaded), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"RecordCreated"`)
	assert.Contains(t, lines[1], `"AvailabilityChecked"`)

	// journal drained
	assert.Empty(t, j.Snapshot())
}

func TestEventArchiver_Flush_RequeuesOnError(t *testing.T) {
	a, j := newArchiverForTest(t)
	stubAWSSeams(t)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("connection refused")
	}

	ctx := context.Background()
	j.Publish(ctx, events.RecordCreated{ID: "evt-1", Creator: "alice"})

	_, err := a.Flush(ctx)
	require.Error(t, err)

	// nothing lost
	require.Len(t, j.Snapshot(), 1)
}

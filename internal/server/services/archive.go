package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/schedvault/schedvault/internal/logging"
	sc "github.com/schedvault/schedvault/internal/server/config"
	"github.com/schedvault/schedvault/internal/server/events"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// EventArchiver ships the notification journal to an S3-compatible store as
// JSONL objects, one object per flush, so external indexers can consume
// events without holding a live connection to the server.
type EventArchiver struct {
	journal *events.Journal
	config  *sc.Config
	logger  logging.Logger
}

// NewEventArchiver constructs an archiver over the given journal.
func NewEventArchiver(journal *events.Journal, cfg *sc.Config, logger logging.Logger) *EventArchiver {
	return &EventArchiver{
		journal: journal,
		config:  cfg,
		logger:  logger.With("module", "archiver"),
	}
}

func archiveStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("events/%d/%02d/%02d/%v.jsonl", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (a *EventArchiver) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
	}), nil
}

// Flush drains the journal and uploads its entries. It returns the object
// key, or "" when the journal was empty. On upload failure the entries are
// requeued so no event is lost.
func (a *EventArchiver) Flush(ctx context.Context) (string, error) {
	entries := a.journal.Drain()
	if len(entries) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			a.journal.Requeue(entries)
			return "", fmt.Errorf("encode journal entry: %w", err)
		}
	}

	client, err := a.getClient(ctx)
	if err != nil {
		a.journal.Requeue(entries)
		return "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := a.config.S3Bucket
	key := archiveStorageKey()

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(buf.Bytes()),
	}); err != nil {
		a.journal.Requeue(entries)
		return "", fmt.Errorf("upload archive: %w", err)
	}

	a.logger.Info(ctx, "archived events", "key", key, "count", len(entries))
	return key, nil
}

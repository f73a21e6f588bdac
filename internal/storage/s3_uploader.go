package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Uploader implements Uploader for AWS S3.
type s3Uploader struct {
	client *s3.Client
	bucket string
	region string
	prefix string
	logger zerolog.Logger
}

// NewS3Uploader creates a new S3-backed uploader. Keys are stored under the
// given prefix within the bucket.
func NewS3Uploader(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "s3-uploader").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 uploader initialised")

	return &s3Uploader{
		client: client,
		bucket: bucket,
		region: region,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Upload stores the payload in S3 and returns its public URL.
func (u *s3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	fullKey := u.prefix + strings.TrimPrefix(key, "/")

	u.logger.Info().
		Str("bucket", u.bucket).
		Str("key", fullKey).
		Str("content_type", contentType).
		Msg("uploading object to S3")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(fullKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", fullKey).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", u.bucket, fullKey, err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, fullKey)

	u.logger.Info().
		Str("bucket", u.bucket).
		Str("key", fullKey).
		Str("url", url).
		Msg("object uploaded successfully")

	return url, nil
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tutorwave/lms-support/internal/config"
)

// Uploader stores a local file under a folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

// Client wraps the AWS S3 client configured for S3-compatible storage.
type Client struct {
	s3            *s3.Client
	bucket        string
	publicBaseURL string
}

// New creates a new S3 client.
func New(cfg config.StorageConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket name is required")
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
		awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretKey,
			"",
		)),
	}

	awsCfg, err := awscfg.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	cli := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Client{s3: cli, bucket: cfg.Bucket, publicBaseURL: publicBase}, nil
}

// Upload puts a local file into S3 under {folder}/{uuid}{ext} and returns the
// public URL of the stored object. The caller owns cleanup of the local file.
func (c *Client) Upload(ctx context.Context, localPath, folder string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 upload: open %q: %w", localPath, err)
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), filepath.Ext(localPath))
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %q: %w", key, err)
	}

	return c.publicBaseURL + "/" + key, nil
}

// RemoveLocal deletes a temporary local file, tolerating its absence.
func RemoveLocal(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Package storage holds resource files (whitepapers, guides) in S3.
// Files are never served by this process: downloads go through
// short-lived presigned URLs minted only after lead capture.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/optiflow/site-backend/internal/config"
)

// FileStore provides resource file storage on S3.
type FileStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	urlTTL  time.Duration
}

// New creates a file store from config. An AWS profile is honored when
// configured; otherwise the default credential chain (IAM role on ECS)
// applies.
func New(ctx context.Context, cfg config.StorageConfig) (*FileStore, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var awsCfg aws.Config
	var err error
	if profile := cfg.GetAWSProfile(); profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &FileStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
		urlTTL:  cfg.DownloadTTL(),
	}, nil
}

// Upload stores a resource file and returns its object key. Keys are
// namespaced per upload so replacing a file never clobbers a URL that
// was already presigned.
func (fs *FileStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("resources/%s/%s", uuid.New(), path.Base(filename))

	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// PresignDownload mints a short-lived download URL for an object key.
func (fs *FileStore) PresignDownload(ctx context.Context, fileKey string) (string, error) {
	req, err := fs.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(fs.urlTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", fileKey, err)
	}
	return req.URL, nil
}

// Delete removes an object. Used when an admin deletes a resource.
func (fs *FileStore) Delete(ctx context.Context, fileKey string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", fileKey, err)
	}
	return nil
}

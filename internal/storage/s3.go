package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage puts media objects into a bucket.
type S3Storage struct {
	s3      *s3.S3
	bucket  string
	baseURL string
}

func NewS3Storage(region, bucket string) (*S3Storage, error) {
	return NewS3StorageWithConfig(&aws.Config{Region: aws.String(region)}, bucket)
}

// NewS3StorageWithConfig allows a custom endpoint (minio, tests).
func NewS3StorageWithConfig(cfg *aws.Config, bucket string) (*S3Storage, error) {
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	baseURL := fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	if cfg.Endpoint != nil && *cfg.Endpoint != "" {
		baseURL = fmt.Sprintf("%s/%s", *cfg.Endpoint, bucket)
	}
	return &S3Storage{s3: s3.New(sess), bucket: bucket, baseURL: baseURL}, nil
}

func (c *S3Storage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read media: %w", err)
		}
		body = bytes.NewReader(buf)
		size = int64(len(buf))
	}
	_, err := c.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (c *S3Storage) URL(key string) string {
	if key == "" {
		return ""
	}
	return c.baseURL + "/" + key
}

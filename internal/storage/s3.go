package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/homeaway/backend/config"
)

// S3API is the part of the S3 client the store uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements ObjectStore on an S3-compatible bucket
type S3Store struct {
	client    S3API
	publicURL func(bucket, key string) string
}

// NewS3Store creates a store from the configured S3 client
func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{
		client:    cfg.Client,
		publicURL: cfg.PublicURL,
	}
}

// Put uploads body and returns the object's public URL
func (s *S3Store) Put(ctx context.Context, bucket, name string, body io.Reader, opts PutOptions) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(name),
		Body:   body,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String("max-age=" + opts.CacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.publicURL(bucket, name), nil
}

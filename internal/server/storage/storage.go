// Package storage keeps profile picture bytes in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/csye-webapp/webapp/internal/metrics"
)

// Operation names reported as s3.operation.<name>.time.
const (
	OpUpload = "uploadProfilePic"
	OpDelete = "deleteProfilePic"
)

// ObjectStore is what the profile picture service needs from a bucket.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public reference stored with the metadata.
	URL(key string) string
}

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options carries the AWS settings shared by the S3 and SNS clients.
type Options struct {
	Region    string
	AccessKey string
	SecretKey string
}

type S3Store struct {
	client  S3API
	bucket  string
	metrics metrics.Recorder
}

// LoadAWSConfig resolves region and credentials for the AWS clients.
// Static credentials are used when both keys are set, otherwise the default
// AWS credential chain applies.
func LoadAWSConfig(ctx context.Context, opts Options) (aws.Config, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws config: %w", err)
	}
	return cfg, nil
}

// NewS3Client builds an S3 client. A base endpoint switches to path-style
// addressing for MinIO and similar servers.
func NewS3Client(cfg aws.Config, baseEndpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})
}

func NewS3Store(client S3API, bucket string, m metrics.Recorder) *S3Store {
	return &S3Store{client: client, bucket: bucket, metrics: m}
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	start := time.Now()
	defer func() { s.metrics.RecordS3OperationTime(OpUpload, time.Since(start)) }()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	defer func() { s.metrics.RecordS3OperationTime(OpDelete, time.Since(start)) }()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	return s.bucket + "/" + key
}

package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver keeps a durable copy of uploaded documents
type Archiver interface {
	// Put stores data under key and returns the key it was stored at,
	// or "" when archiving is disabled.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Options configures an S3-compatible bucket (AWS S3 or Cloudflare R2)
type Options struct {
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

type S3 struct {
	client *s3.Client
	bucket string
}

// New returns an S3 archiver, or Noop when no bucket is configured
func New(ctx context.Context, opts Options) (Archiver, error) {
	if opts.Bucket == "" {
		return Noop{}, nil
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: opts.Bucket}, nil
}

func (a *S3) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return key, nil
}

// Noop discards documents
type Noop struct{}

func (Noop) Put(context.Context, string, []byte, string) (string, error) {
	return "", nil
}

// ResumeKey is the object key for the original PDF of an upload
func ResumeKey(uid, uploadID string) string {
	return fmt.Sprintf("resumes/%s/%s.pdf", uid, uploadID)
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader stores an object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// s3Uploader writes to an S3-compatible bucket (AWS, MinIO, or a hosted
// storage service exposing the S3 API).
type s3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func newS3Uploader(ctx context.Context) (*s3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(getenv("S3_REGION", "us-east-1")),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			getenv("S3_ACCESS_KEY", ""),
			getenv("S3_SECRET_KEY", ""),
			"",
		)))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if ep := getenv("S3_ENDPOINT", ""); ep != "" {
			o.BaseEndpoint = aws.String(ep)
			o.UsePathStyle = true
		}
	})
	return &s3Uploader{
		client:        client,
		bucket:        getenv("S3_BUCKET", "portfolio"),
		publicBaseURL: strings.TrimRight(getenv("S3_PUBLIC_BASE_URL", ""), "/"),
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(getenv("S3_ENDPOINT", ""), "/"), u.bucket, key), nil
}

// storageKey namespaces objects by date and makes collisions impossible
// while keeping the original filename readable in the URL.
func storageKey(filename string) string {
	name := strings.ReplaceAll(strings.TrimSpace(filename), " ", "-")
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%02d/%v-%s", d.Year(), int(d.Month()), uuid.New(), name)
}

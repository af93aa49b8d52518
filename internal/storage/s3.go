package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Service serves profile images from Amazon S3 (or compatible APIs).
type S3Service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	urlTTL    time.Duration
}

func NewS3Service(client *s3.Client, bucket string, urlTTL time.Duration) *S3Service {
	if urlTTL <= 0 {
		urlTTL = 15 * time.Minute
	}
	return &S3Service{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		urlTTL:    urlTTL,
	}
}

// ObjectURL returns a presigned GET URL for key.
func (s *S3Service) ObjectURL(ctx context.Context, key string) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// DeleteObjects removes the given keys; empty keys and absolute URLs are skipped.
func (s *S3Service) DeleteObjects(ctx context.Context, keys ...string) error {
	if s.bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}

	identifiers := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		if !IsObjectKey(key) {
			continue
		}
		identifiers = append(identifiers, types.ObjectIdentifier{
			Key: aws.String(strings.TrimPrefix(strings.TrimSpace(key), "/")),
		})
	}
	if len(identifiers) == 0 {
		return nil
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: identifiers,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("delete objects: %w", err)
	}
	return nil
}

var _ Service = (*S3Service)(nil)

package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, bucket string) *S3Service {
	t.Helper()
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("http://127.0.0.1:9000")
		o.UsePathStyle = true
	})
	return NewS3Service(client, bucket, 10*time.Minute)
}

func TestObjectURL_Presigns(t *testing.T) {
	svc := newTestService(t, "avatars")

	raw, err := svc.ObjectURL(context.Background(), "/users/7/picture.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/avatars/users/7/picture.png", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestObjectURL_Errors(t *testing.T) {
	_, err := newTestService(t, "").ObjectURL(context.Background(), "a.png")
	assert.Error(t, err)

	_, err = newTestService(t, "avatars").ObjectURL(context.Background(), "  ")
	assert.Error(t, err)
}

func TestDeleteObjects_SkipsNonKeys(t *testing.T) {
	svc := newTestService(t, "avatars")
	// nothing to delete means no request is made
	require.NoError(t, svc.DeleteObjects(context.Background(), "", "https://cdn.example.com/a.png"))
}

func TestIsObjectKey(t *testing.T) {
	assert.True(t, IsObjectKey("users/7/a.png"))
	assert.False(t, IsObjectKey(""))
	assert.False(t, IsObjectKey("  "))
	assert.False(t, IsObjectKey("HTTPS://cdn.example.com/a.png"))
	assert.False(t, IsObjectKey("http://cdn.example.com/a.png"))
}

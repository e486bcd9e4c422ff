package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client reads inputs from and writes reports to S3.
type S3Client struct {
	client *s3.Client
}

// NewS3Client loads the default AWS config for region.
func NewS3Client(ctx context.Context, region string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Client{client: s3.NewFromConfig(cfg)}, nil
}

// ParseS3URL splits "s3://bucket/key" into bucket and key.
func ParseS3URL(url string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(url, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", url)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url %q needs a bucket and key", url)
	}
	return bucket, key, nil
}

// OpenURL streams the object at an s3:// URL. Caller closes the body.
func (c *S3Client) OpenURL(ctx context.Context, url string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(url)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting S3 object %s: %w", url, err)
	}
	return resp.Body, nil
}

// UploadJSON marshals v and writes it to an s3:// URL.
func (c *S3Client) UploadJSON(ctx context.Context, url string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", url, err)
	}
	return c.Upload(ctx, url, bytes.NewReader(data), "application/json")
}

// Upload writes body to an s3:// URL.
func (c *S3Client) Upload(ctx context.Context, url string, body io.Reader, contentType string) error {
	bucket, key, err := ParseS3URL(url)
	if err != nil {
		return err
	}
	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("putting S3 object %s: %w", url, err)
	}
	return nil
}

// Package storage reads and writes resume uploads in an S3-compatible
// bucket such as Cloudflare R2.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/jonathan/ats-matcher/internal/config"
)

// ErrObjectTooLarge is returned when an object exceeds the download limit.
var ErrObjectTooLarge = errors.New("object too large")

// ObjectAPI is the subset of the S3 client used by Store.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store reads and writes objects in one bucket.
type Store struct {
	client   ObjectAPI
	bucket   string
	maxBytes int64
}

// New builds a Store from static credentials. The endpoint is the
// configured one or the R2 endpoint for the account.
func New(ctx context.Context, cfg config.StorageConfig, maxBytes int64) (*Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("storage is not configured: bucket, credentials and account or endpoint are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	endpoint := cfg.ResolvedEndpoint()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.Endpoint != ""
	})

	return NewWithClient(client, cfg.Bucket, maxBytes), nil
}

// NewWithClient wraps an existing client. maxBytes <= 0 disables the download limit.
func NewWithClient(client ObjectAPI, bucket string, maxBytes int64) *Store {
	return &Store{client: client, bucket: bucket, maxBytes: maxBytes}
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Download reads the object at key into memory.
func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	body := io.Reader(out.Body)
	if s.maxBytes > 0 {
		body = io.LimitReader(out.Body, s.maxBytes+1)
	}

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if s.maxBytes > 0 && int64(buf.Len()) > s.maxBytes {
		return nil, fmt.Errorf("object %s exceeds %d bytes: %w", key, s.maxBytes, ErrObjectTooLarge)
	}
	return buf.Bytes(), nil
}

// Upload stores data at key.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// Delete removes the object at key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// ObjectKey returns the key an upload for analysis id is stored under.
// Only the extension of fileName is kept.
func ObjectKey(id uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, "\\", "/")))
	if len(ext) > 8 || strings.ContainsAny(ext, " /") {
		ext = ""
	}
	return "resumes/" + id.String() + ext
}

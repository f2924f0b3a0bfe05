package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

// S3Options configures the S3-compatible backend (MinIO in development).
type S3Options struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store keeps blobs in an S3-compatible bucket under <ownerID>/<fileName>.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3 client from static credentials and a base endpoint.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.RootUser,     // MINIO_ROOT_USER
			opts.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

func ownerPrefix(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}

// Write uploads the blob; S3 object puts are already atomic.
func (s *S3Store) Write(ctx context.Context, ownerID int64, fileName string, data []byte) (string, error) {
	prefix := ownerPrefix(ownerID)
	key := prefix + "/" + fileName

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return prefix, nil
}

func (s *S3Store) Read(ctx context.Context, storagePath, fileName string) ([]byte, error) {
	key := storagePath + "/" + fileName

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Remove deletes the blob. S3 reports success for absent keys, so a missing
// blob is not distinguishable here and is treated as already deleted.
func (s *S3Store) Remove(ctx context.Context, storagePath, fileName string) error {
	key := storagePath + "/" + fileName

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// RemoveOwnerDir is a no-op: prefixes have no independent existence in S3.
func (s *S3Store) RemoveOwnerDir(ctx context.Context, ownerID int64) error {
	return nil
}

// Package media stores avatar objects in a Cloudflare R2 bucket through the
// S3 API.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/snap-point/social-api/config"
)

// URLResolver turns a stored avatar reference into a public URL.
type URLResolver interface {
	PublicURL(ref string) string
}

// StaticURL resolves references against a fixed base URL.
type StaticURL string

func (s StaticURL) PublicURL(ref string) string {
	return JoinPublicURL(string(s), ref)
}

// AvatarStorage is what the upload handlers need from object storage.
type AvatarStorage interface {
	URLResolver
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Move(ctx context.Context, sourceKey, destKey string) error
	Delete(ctx context.Context, key string) error
}

type R2Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

func NewR2Storage(cfg config.R2Config) *R2Storage {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})

	return &R2Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
	}
}

func (r *R2Storage) PublicURL(ref string) string {
	return JoinPublicURL(r.publicURL, ref)
}

func (r *R2Storage) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	req, err := r.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (r *R2Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head %s: %w", key, err)
	}
	return true, nil
}

// Move copies sourceKey to destKey and removes the source.
func (r *R2Storage) Move(ctx context.Context, sourceKey, destKey string) error {
	_, err := r.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(r.bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", r.bucket, sourceKey)),
		Key:        aws.String(destKey),
	})
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", sourceKey, destKey, err)
	}
	return r.Delete(ctx, sourceKey)
}

func (r *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

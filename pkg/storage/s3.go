// Package storage archives generated files to object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client s3API
	bucket string
	prefix string
	log    *zap.Logger
}

// NewS3Uploader switches to path-style addressing when a custom endpoint is set.
func NewS3Uploader(cfg aws.Config, bucket, prefix string, log *zap.Logger) *S3Uploader {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.BaseEndpoint != nil
	})
	return newS3Uploader(client, bucket, prefix, log)
}

func newS3Uploader(client s3API, bucket, prefix string, log *zap.Logger) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log.With(zap.String("storage", "s3")),
	}
}

// Upload stores data under prefix/name as a private object and returns its key.
func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(u.prefix, name)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		u.log.Error("Failed to upload object", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	u.log.Info("Object uploaded", zap.String("bucket", u.bucket), zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}

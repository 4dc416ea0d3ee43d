package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recipebox/backend/config"
)

// S3KeyPrefix is prepended to every object key
const S3KeyPrefix = "uploads/"

// S3API is the subset of the S3 client used for image uploads
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore uploads images to a bucket and records their public URL
type S3ImageStore struct {
	client    S3API
	bucket    string
	publicURL func(key string) string
	now       func() time.Time
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client:    cfg.Client,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
		now:       time.Now,
	}
}

func (s *S3ImageStore) Accept(ctx context.Context, r io.Reader, originalName string) (*UploadedImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %w", ErrUpload, err)
	}

	filename := StoredName(s.now(), originalName)
	key := S3KeyPrefix + filename

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType := mime.TypeByExtension(path.Ext(filename)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: put %s: %w", ErrUpload, key, err)
	}

	publicURL := s.publicURL(key)
	log.Printf("[ImageStore] uploaded image to S3: %s", publicURL)
	return &UploadedImage{Filename: filename, Path: publicURL}, nil
}

func (s *S3ImageStore) Remove(ctx context.Context, imagePath string) error {
	key := S3KeyPrefix + path.Base(imagePath)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

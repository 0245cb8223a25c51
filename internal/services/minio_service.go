package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
)

// MinioServiceInterface stores menu and restaurant imagery in object
// storage and hands out presigned read URLs.
type MinioServiceInterface interface {
	EnsureBucketExists(ctx context.Context) error
	UploadImage(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	DeleteImage(ctx context.Context, objectName string) error
}

type minioService struct {
	client *minio.Client
	bucket string
}

func NewMinioService(client *minio.Client, bucket string) MinioServiceInterface {
	return &minioService{client: client, bucket: bucket}
}

func (s *minioService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	log.Printf("created bucket %s", s.bucket)
	return nil
}

func (s *minioService) UploadImage(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return objectName, nil
}

func (s *minioService) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}
	return url.String(), nil
}

func (s *minioService) DeleteImage(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

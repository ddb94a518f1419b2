package persistent

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/maintdesk/ticket-intake/pkg/s3client"
)

const _defaultURLExpiry = 7 * 24 * time.Hour

type PhotoRepo struct {
	*s3client.S3Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

func NewPhotoRepo(s3c *s3client.S3Client, bucket string) *PhotoRepo {
	return &PhotoRepo{
		S3Client: s3c,
		presign:  s3.NewPresignClient(s3c.Client),
		bucket:   bucket,
		expiry:   _defaultURLExpiry,
	}
}

func (r *PhotoRepo) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("PhotoRepo - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

func (r *PhotoRepo) RetrievableURL(ctx context.Context, key string) (string, error) {
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		return "", fmt.Errorf("PhotoRepo - RetrievableURL - r.presign.PresignGetObject: %w", err)
	}

	return req.URL, nil
}

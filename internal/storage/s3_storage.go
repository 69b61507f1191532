package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/ihsaan797/InvoiceME/internal/config"
)

// IS3Storage stores the business logo. Uploads are normalized (bounded
// dimensions, PNG) before they reach the bucket so render-time fetches never
// pull an oversized original.
type IS3Storage interface {
	UploadLogo(ctx context.Context, data []byte) (string, error)
	FetchLogo(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
}

// s3Storage implements IS3Storage.
type s3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates a new S3 storage service.
func NewS3Storage(cfg *config.Config) (IS3Storage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// UploadLogo validates, normalizes and stores an uploaded logo, returning
// the object key to record on the business profile.
func (s *s3Storage) UploadLogo(ctx context.Context, data []byte) (string, error) {
	maxBytes := int64(s.cfg.LogoMaxSizeMB) * 1024 * 1024
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("logo exceeds maximum size of %dMB", s.cfg.LogoMaxSizeMB)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unsupported or corrupt logo image: %w", err)
	}

	maxDim := uint(s.cfg.LogoMaxDimension)
	if uint(img.Bounds().Dx()) > maxDim || uint(img.Bounds().Dy()) > maxDim {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}

	// Always re-encode as PNG: predictable content type and transparency
	// survives.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}

	key := fmt.Sprintf("logos/%s.png", uuid.NewString())
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload logo %s: %w", key, err)
	}
	return key, nil
}

// FetchLogo downloads a stored logo by key.
func (s *s3Storage) FetchLogo(ctx context.Context, key string) ([]byte, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch logo %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo %s: %w", key, err)
	}
	return data, nil
}

func (s *s3Storage) DeleteObject(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

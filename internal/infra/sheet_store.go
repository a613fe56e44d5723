package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

const pdfContentType = "application/pdf"

// SheetStore archives rendered price sheets by file name.
type SheetStore interface {
	// Save stores data under name and returns where it went (path or s3 URI).
	Save(ctx context.Context, name string, data []byte) (string, error)
	Load(ctx context.Context, name string) ([]byte, error)
}

// ── Local disk ───────────────────────────────────────────────────────────────

type LocalSheetStore struct {
	dir string
}

func NewLocalSheetStore(dir string) *LocalSheetStore {
	return &LocalSheetStore{dir: dir}
}

func (s *LocalSheetStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("sheet store: create dir: %w", err)
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("sheet store: write %s: %w", name, err)
	}
	return path, nil
}

func (s *LocalSheetStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("sheet store: read %s: %w", name, err)
	}
	return data, nil
}

// ── MinIO / S3 ───────────────────────────────────────────────────────────────

type MinioSheetStore struct {
	client *minio.Client
	bucket string
}

// NewMinioSheetStore connects to MinIO and makes sure the bucket exists.
func NewMinioSheetStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioSheetStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("minio: bucket created")
	}
	return &MinioSheetStore{client: client, bucket: bucket}, nil
}

func (s *MinioSheetStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: pdfContentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", name, s.bucket, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, name), nil
}

func (s *MinioSheetStore) Load(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", name, err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Nastya870/smetalab-sub001/internal/config"
)

// Archive keeps copies of generated act documents in object storage.
type Archive struct {
	client *minio.Client
	bucket string
}

// New builds the archive client and ensures the bucket exists. An empty
// endpoint means archiving is disabled; the caller gets a nil Archive.
func New(ctx context.Context, cfg config.StorageConfig) (*Archive, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Archive{client: client, bucket: cfg.Bucket}, nil
}

func (a *Archive) Store(ctx context.Context, objectName string, content []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectName, err)
	}
	return nil
}

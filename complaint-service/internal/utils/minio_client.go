package utils

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"complaint-portal/complaint-service/internal/config"
	"complaint-portal/complaint-service/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadsPrefix is the public path complaint images are served under.
const UploadsPrefix = "/uploads/"

// MinioImageStore keeps complaint photos in a MinIO bucket.
type MinioImageStore struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinioImageStore(ctx context.Context, cfg config.MinioConfig) (*MinioImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioImageStore{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// ObjectName is the bucket key for an upload by owner at t.
func ObjectName(owner primitive.ObjectID, filename string, t time.Time) string {
	return fmt.Sprintf("photo_%s_%d%s", owner.Hex(), t.UnixMilli(), strings.ToLower(path.Ext(filename)))
}

// objectFromURL maps a stored URL back to its object name. Anything that is
// not a plain name under UploadsPrefix yields "".
func objectFromURL(url string) string {
	name := strings.TrimPrefix(url, UploadsPrefix)
	if name == url || !validObjectName(name) {
		return ""
	}
	return name
}

func validObjectName(name string) bool {
	return name != "" && name != "." && name != ".." && path.Base(name) == name && !strings.Contains(name, "\\")
}

func (s *MinioImageStore) Save(ctx context.Context, owner primitive.ObjectID, img models.ImageUpload) (string, error) {
	name := ObjectName(owner, img.Filename, s.now())

	_, err := s.client.PutObject(ctx, s.bucket, name, img.Body, img.Size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return UploadsPrefix + name, nil
}

// Remove deletes the object behind url. A missing object is not an error.
func (s *MinioImageStore) Remove(ctx context.Context, url string) error {
	name := objectFromURL(url)
	if name == "" {
		return nil
	}

	err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Open streams an object. Unknown names yield models.ErrNotFound.
func (s *MinioImageStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, string, error) {
	if !validObjectName(name) {
		return nil, 0, "", models.ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", fmt.Errorf("get %s: %w", name, err)
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, "", models.ErrNotFound
		}
		return nil, 0, "", fmt.Errorf("stat %s: %w", name, err)
	}

	return obj, info.Size, info.ContentType, nil
}

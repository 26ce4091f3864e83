package staging

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"court-compare/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// BucketStore keeps staged files as objects under a prefix of a bucket.
type BucketStore struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewBucketStore creates a store rooted at prefix inside bucket.
func NewBucketStore(client storage.Client, bucket, prefix string, logger *zap.Logger) *BucketStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &BucketStore{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// Ensure creates the bucket if it does not exist yet.
func (s *BucketStore) Ensure(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created staging bucket", zap.String("bucket", s.bucket))
	return nil
}

func (s *BucketStore) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.prefix+name, r, size, minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

func (s *BucketStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	key := s.prefix + name
	// GetObject is lazy; stat first so a missing object surfaces as ErrNotFound.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", name, err)
	}
	return obj, nil
}

func (s *BucketStore) List(ctx context.Context) ([]string, error) {
	objects, err := s.objects(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, s.prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *BucketStore) Purge(ctx context.Context) (int, error) {
	objects, err := s.objects(ctx)
	if err != nil {
		return 0, err
	}
	if len(objects) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		objectsCh <- obj
	}
	close(objectsCh)

	failed := 0
	var firstErr error
	for rErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed++
		if firstErr == nil {
			firstErr = rErr.Err
		}
		s.logger.Error("Failed to remove staged object", zap.String("key", rErr.ObjectName), zap.Error(rErr.Err))
	}
	if firstErr != nil {
		return len(objects) - failed, fmt.Errorf("failed to purge %d staged objects: %w", failed, firstErr)
	}
	return len(objects), nil
}

func (s *BucketStore) objects(ctx context.Context) ([]minio.ObjectInfo, error) {
	var out []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list staged objects: %w", obj.Err)
		}
		out = append(out, obj)
	}
	return out, nil
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasSuffix(strings.ToLower(name), ".csv"):
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

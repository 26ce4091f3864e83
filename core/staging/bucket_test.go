package staging

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"court-compare/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestBucketStore_Ensure(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "snapshots").Return(true, nil)

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		require.NoError(t, store.Ensure(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "snapshots").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "snapshots", mock.Anything).Return(nil)

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		require.NoError(t, store.Ensure(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "snapshots").Return(false, assert.AnError)

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		assert.ErrorIs(t, store.Ensure(context.Background()), assert.AnError)
	})
}

func TestBucketStore_Put(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "snapshots", "uploads/week1.xlsx", mock.Anything, int64(4),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return strings.Contains(o.ContentType, "spreadsheetml")
		})).Return(minio.UploadInfo{}, nil)

	store := NewBucketStore(client, "snapshots", "uploads/", zap.NewNop())
	require.NoError(t, store.Put(context.Background(), "week1.xlsx", strings.NewReader("data"), 4))
	client.AssertExpectations(t)
}

func TestBucketStore_Open(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "snapshots", "uploads/week1.csv", mock.Anything).Return(minio.ObjectInfo{Key: "uploads/week1.csv"}, nil)
		client.On("GetObject", mock.Anything, "snapshots", "uploads/week1.csv", mock.Anything).Return(io.NopCloser(strings.NewReader("a,b,c,d")), nil)

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		rc, err := store.Open(context.Background(), "week1.csv")
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "a,b,c,d", string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("StatObject", mock.Anything, "snapshots", "uploads/nope.csv", mock.Anything).Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		_, err := store.Open(context.Background(), "nope.csv")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestBucketStore_List(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "snapshots", mock.Anything).
		Return(listing("uploads/week2.csv", "uploads/week1.xlsx", "uploads/nested/skip.csv"))

	store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"week1.xlsx", "week2.csv"}, names)
}

func TestBucketStore_Purge(t *testing.T) {
	t.Run("RemovesAll", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "snapshots", mock.Anything).
			Return(listing("uploads/a.csv", "uploads/b.csv"))
		client.On("RemoveObjects", mock.Anything, "snapshots", mock.Anything, mock.Anything).Return(nil)

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		n, err := store.Purge(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Empty", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "snapshots", mock.Anything).Return(listing())

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		n, err := store.Purge(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		client.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PartialFailure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListObjects", mock.Anything, "snapshots", mock.Anything).
			Return(listing("uploads/a.csv", "uploads/b.csv"))
		errCh := make(chan minio.RemoveObjectError, 1)
		errCh <- minio.RemoveObjectError{ObjectName: "uploads/b.csv", Err: assert.AnError}
		close(errCh)
		client.On("RemoveObjects", mock.Anything, "snapshots", mock.Anything, mock.Anything).
			Return((<-chan minio.RemoveObjectError)(errCh))

		store := NewBucketStore(client, "snapshots", "uploads", zap.NewNop())
		n, err := store.Purge(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, n)
	})
}

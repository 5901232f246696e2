package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"openapi-sync/core/storage"
	"openapi-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "sync").Return(true, nil)

		created, err := storage.EnsureBucket(ctx, m, "sync", "")
		require.NoError(t, err)
		assert.False(t, created)
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "sync").Return(false, nil)
		m.On("MakeBucket", ctx, "sync", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		created, err := storage.EnsureBucket(ctx, m, "sync", "eu-west-1")
		require.NoError(t, err)
		assert.True(t, created)
		m.AssertExpectations(t)
	})

	t.Run("Check fails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "sync").Return(false, errors.New("unreachable"))

		_, err := storage.EnsureBucket(ctx, m, "sync", "")
		assert.ErrorContains(t, err, "unreachable")
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, storage.IsNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, storage.IsNotFound(errors.New("boom")))
	assert.False(t, storage.IsNotFound(nil))
}

func TestPutJSON(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)

	var uploaded []byte
	m.On("PutObject", ctx, "sync", "decisions/petstore.json", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	err := storage.PutJSON(ctx, m, "sync", "decisions/petstore.json", map[string]string{"GET:/a": "keep-mine"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"GET:/a": "keep-mine"}`, string(uploaded))
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "sync", "a.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(`{"n": 3}`))), nil)

		var v struct{ N int }
		require.NoError(t, storage.GetJSON(ctx, m, "sync", "a.json", &v))
		assert.Equal(t, 3, v.N)
	})

	t.Run("Missing object", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "sync", "a.json", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		var v map[string]any
		err := storage.GetJSON(ctx, m, "sync", "a.json", &v)
		assert.True(t, storage.IsNotFound(err))
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "sync", "a.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(`{`))), nil)

		var v map[string]any
		assert.Error(t, storage.GetJSON(ctx, m, "sync", "a.json", &v))
	})
}

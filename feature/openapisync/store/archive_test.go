package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"openapi-sync/core/reconcile"
	"openapi-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPlanArchive_Save(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	at := time.Unix(1700000000, 0)

	var doc ArchivedPlan
	m.On("PutObject", ctx, "sync", "plans/petstore/1700000000000000000-3f2c.json", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			_ = json.Unmarshal(data, &doc)
		}).
		Return(minio.UploadInfo{}, nil)

	a := NewPlanArchive(m, "sync")
	a.now = func() time.Time { return at }
	a.newID = func() string { return "3f2c" }

	plan := reconcile.SyncPlan{ToAdd: []reconcile.Endpoint{{ID: "POST:/pets"}}}
	req := reconcile.NewApplyRequest("petstore", reconcile.ModeSync, plan, nil)

	key, err := a.Save(ctx, req, "ray-1")
	require.NoError(t, err)

	assert.Equal(t, "plans/petstore/1700000000000000000-3f2c.json", key)
	assert.Equal(t, "ray-1", doc.RayID)
	assert.Equal(t, 1, doc.Summary.Add)
	assert.Equal(t, "petstore", doc.Request.Collection)
}

func TestPlanArchive_SaveSameInstantKeepsBoth(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)

	var keys []string
	m.On("PutObject", ctx, "sync", mock.Anything, mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(2)) }).
		Return(minio.UploadInfo{}, nil)

	a := NewPlanArchive(m, "sync")
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	req := reconcile.ApplyRequest{Collection: "petstore"}
	_, err := a.Save(ctx, req, "")
	require.NoError(t, err)
	_, err = a.Save(ctx, req, "")
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "plans/petstore/1700000000000000000-"), k)
	}
}

func TestPlanArchive_SaveError(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("PutObject", ctx, "sync", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	_, err := NewPlanArchive(m, "sync").Save(ctx, reconcile.ApplyRequest{Collection: "petstore"}, "")
	assert.ErrorContains(t, err, "failed to archive plan")
}

func TestPlanArchive_List(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("ListObjects", ctx, "sync", minio.ListObjectsOptions{Prefix: "plans/petstore/", Recursive: true}).
		Return(mocks.ObjectList(
			"plans/petstore/1700000000000000000.json",
			"plans/petstore/1700000002000000000.json",
			"plans/petstore/README",
			"plans/petstore/1700000001000000000.json",
		))

	keys, err := NewPlanArchive(m, "sync").List(ctx, "petstore")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"plans/petstore/1700000002000000000.json",
		"plans/petstore/1700000001000000000.json",
		"plans/petstore/1700000000000000000.json",
	}, keys)
}

func TestPlanArchive_Get(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("GetObject", ctx, "sync", "plans/petstore/1.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(`{"summary":{"add":2},"request":{"collection":"petstore","mode":"sync"}}`))), nil)

	doc, err := NewPlanArchive(m, "sync").Get(ctx, "plans/petstore/1.json")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Summary.Add)
	assert.Equal(t, reconcile.ModeSync, doc.Request.Mode)
}

func TestPlanArchive_Prune(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes oldest", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", ctx, "sync", mock.Anything).
			Return(mocks.ObjectList("plans/petstore/1.json", "plans/petstore/3.json", "plans/petstore/2.json"))
		m.On("RemoveObjects", ctx, "sync", []string{"plans/petstore/1.json"}, mock.Anything).Return(nil)

		removed, err := NewPlanArchive(m, "sync").Prune(ctx, "petstore", 2)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		m.AssertExpectations(t)
	})

	t.Run("Nothing to prune", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", ctx, "sync", mock.Anything).Return(mocks.ObjectList("plans/petstore/1.json"))

		removed, err := NewPlanArchive(m, "sync").Prune(ctx, "petstore", 5)
		require.NoError(t, err)
		assert.Zero(t, removed)
		m.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Partial failure", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("ListObjects", ctx, "sync", mock.Anything).
			Return(mocks.ObjectList("plans/petstore/1.json", "plans/petstore/2.json"))

		errCh := make(chan minio.RemoveObjectError, 1)
		errCh <- minio.RemoveObjectError{ObjectName: "plans/petstore/1.json", Err: assert.AnError}
		close(errCh)
		m.On("RemoveObjects", ctx, "sync", []string{"plans/petstore/2.json", "plans/petstore/1.json"}, mock.Anything).
			Return((<-chan minio.RemoveObjectError)(errCh))

		removed, err := NewPlanArchive(m, "sync").Prune(ctx, "petstore", 0)
		assert.Error(t, err)
		assert.Equal(t, 1, removed)
	})
}

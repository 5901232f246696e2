package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"openapi-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	mu       sync.Mutex
	paths    []string
	queries  []string
	auth     string
	lastBody []byte
}

func (r *recorded) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, req.URL.EscapedPath())
	r.queries = append(r.queries, req.URL.RawQuery)
	r.auth = req.Header.Get("Authorization")
	r.lastBody, _ = io.ReadAll(req.Body)
}

func newServer(t *testing.T, rec *recorded, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec.add(req)
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Source(t *testing.T) {
	rec := &recorded{}
	srv := newServer(t, rec, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/collections/petstore/spec-diff":
			_, _ = w.Write([]byte(`{"modified":[{"method":"get","path":"/pets/{id}"}]}`))
		case "/collections/petstore/local-diff":
			_, _ = w.Write([]byte(`{"modified":[],"noStoredSpec":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := NewClient(srv.URL+"/", "", "tok", time.Second)
	ctx := context.Background()

	spec, err := c.SpecDiff(ctx, "petstore")
	require.NoError(t, err)
	require.Len(t, spec.Modified, 1)
	assert.Equal(t, "/pets/{id}", spec.Modified[0].Path)

	local, err := c.LocalDiff(ctx, "petstore", true)
	require.NoError(t, err)
	assert.True(t, local.NoStoredSpec)

	drift, err := c.RemoteDrift(ctx, "petstore", false)
	require.NoError(t, err)
	assert.Nil(t, drift)

	assert.Equal(t, []string{
		"/collections/petstore/spec-diff",
		"/collections/petstore/local-diff",
		"/collections/petstore/remote-drift",
	}, rec.paths)
	assert.Equal(t, []string{"", "readFromDisk=true", "readFromDisk=false"}, rec.queries)
	assert.Equal(t, "Bearer tok", rec.auth)
}

func TestClient_SourceErrors(t *testing.T) {
	rec := &recorded{}
	srv := newServer(t, rec, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/collections/a/spec-diff" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
			return
		}
		_, _ = w.Write([]byte(`{not json`))
	})

	c := NewClient(srv.URL, "", "", time.Second)

	_, err := c.SpecDiff(context.Background(), "a")
	assert.ErrorIs(t, err, ErrRemoteStatus)
	assert.ErrorContains(t, err, "upstream down")

	_, err = c.LocalDiff(context.Background(), "a", false)
	assert.Error(t, err)
}

func TestClient_CanceledContext(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "http://127.0.0.1:1/apply", "", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SpecDiff(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Apply(ctx, reconcile.ApplyRequest{}), context.Canceled)
}

func TestClient_Apply(t *testing.T) {
	rec := &recorded{}
	srv := newServer(t, rec, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	c := NewClient("", srv.URL+"/apply", "", time.Second)
	plan := reconcile.SyncPlan{ToRemove: []reconcile.Endpoint{{ID: "DELETE:/pets/:id"}}}
	req := reconcile.NewApplyRequest("petstore", reconcile.ModeSpecOnly, plan, map[string]reconcile.Decision{
		"DELETE:/pets/:id": reconcile.AcceptIncoming,
	})

	require.NoError(t, c.Apply(context.Background(), req))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.lastBody, &sent))
	assert.Equal(t, "petstore", sent["collection"])
	assert.Equal(t, "spec-only", sent["mode"])
	assert.Equal(t, false, sent["addNewEndpoints"])
	assert.Equal(t, []any{"DELETE:/pets/:id"}, sent["localOnlyToRemove"])
	assert.Equal(t, map[string]any{"DELETE:/pets/:id": "accept-incoming"}, sent["endpointDecisions"])
}

func TestClient_ApplyFailure(t *testing.T) {
	rec := &recorded{}
	srv := newServer(t, rec, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("collection locked"))
	})

	err := NewClient("", srv.URL, "", time.Second).Apply(context.Background(), reconcile.ApplyRequest{})
	assert.ErrorIs(t, err, ErrRemoteStatus)
	assert.ErrorContains(t, err, "collection locked")
}

func TestClient_ApplyNotConfigured(t *testing.T) {
	err := NewClient("http://x", "", "", 0).Apply(context.Background(), reconcile.ApplyRequest{})
	assert.ErrorContains(t, err, "not configured")
}

func TestClient_ImplementsPorts(t *testing.T) {
	var _ reconcile.Source = (*Client)(nil)
	var _ reconcile.Applier = (*Client)(nil)
}

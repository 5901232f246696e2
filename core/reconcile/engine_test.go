package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) SpecDiff(ctx context.Context, collection string) (*DiffSet, error) {
	args := m.Called(ctx, collection)
	return diffArg(args.Get(0)), args.Error(1)
}

func (m *mockSource) LocalDiff(ctx context.Context, collection string, readFromDisk bool) (*DiffSet, error) {
	args := m.Called(ctx, collection, readFromDisk)
	return diffArg(args.Get(0)), args.Error(1)
}

func (m *mockSource) RemoteDrift(ctx context.Context, collection string, readFromDisk bool) (*DiffSet, error) {
	args := m.Called(ctx, collection, readFromDisk)
	return diffArg(args.Get(0)), args.Error(1)
}

func diffArg(v interface{}) *DiffSet {
	if v == nil {
		return nil
	}
	return v.(*DiffSet)
}

func TestEngine_Reconcile(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("SpecDiff", mock.Anything, "petstore").Return(&DiffSet{Modified: []Endpoint{withID("GET:/a")}}, nil)
	src.On("LocalDiff", mock.Anything, "petstore", true).Return(&DiffSet{Modified: []Endpoint{withID("GET:/a")}}, nil)
	src.On("RemoteDrift", mock.Anything, "petstore", true).Return(&DiffSet{Modified: []Endpoint{withID("GET:/a")}}, nil)

	engine := NewEngine(src, zap.NewNop())
	in, r, err := engine.Reconcile(ctx, "petstore", true)
	require.NoError(t, err)

	require.NotNil(t, in.RemoteDrift)
	assert.Equal(t, StrategyThreeWay, r.Strategy)
	assert.Equal(t, []string{"GET:/a"}, ids(r.Conflicts))
	src.AssertExpectations(t)
}

func TestEngine_ErrorsBecomeAbsentComparisons(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)

	src := new(mockSource)
	src.On("SpecDiff", mock.Anything, "petstore").Return(&DiffSet{Added: []Endpoint{withID("POST:/a")}}, nil)
	src.On("LocalDiff", mock.Anything, "petstore", false).Return(&DiffSet{}, nil)
	src.On("RemoteDrift", mock.Anything, "petstore", false).Return(nil, errors.New("remote unreachable"))

	engine := NewEngine(src, zap.New(core))
	in, r, err := engine.Reconcile(ctx, "petstore", false)
	require.NoError(t, err)

	assert.Nil(t, in.RemoteDrift)
	assert.Equal(t, StrategyTwoWay, r.Strategy)
	assert.Equal(t, []string{"POST:/a"}, ids(r.NewInSpec))

	entries := logs.FilterMessage("Remote drift unavailable").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "petstore", entries[0].ContextMap()["collection"])
}

func TestEngine_AllComparisonsFail(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("SpecDiff", mock.Anything, "c").Return(nil, errors.New("a"))
	src.On("LocalDiff", mock.Anything, "c", false).Return(nil, errors.New("b"))
	src.On("RemoteDrift", mock.Anything, "c", false).Return(nil, errors.New("remote down"))

	in, r, err := NewEngine(src, nil).Reconcile(ctx, "c", false)

	require.ErrorIs(t, err, ErrComparisonsUnavailable)
	assert.Contains(t, err.Error(), "remote")
	assert.Nil(t, in.SpecDiff)
	assert.Equal(t, 0, r.Len())
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := new(mockSource)
	_, _, err := NewEngine(src, nil).Reconcile(ctx, "c", false)

	require.ErrorIs(t, err, context.Canceled)
	src.AssertNotCalled(t, "SpecDiff", mock.Anything, mock.Anything)
}

func TestEngine_StoredSpecMissingMarksLocalDiff(t *testing.T) {
	ctx := context.Background()
	local := &DiffSet{Modified: []Endpoint{withID("GET:/a")}}

	src := new(mockSource)
	src.On("SpecDiff", mock.Anything, "petstore").Return(&DiffSet{StoredSpecMissing: true, Modified: []Endpoint{withID("GET:/a")}}, nil)
	src.On("LocalDiff", mock.Anything, "petstore", false).Return(local, nil)
	src.On("RemoteDrift", mock.Anything, "petstore", false).Return(&DiffSet{Modified: []Endpoint{withID("GET:/a")}}, nil)

	in, r, err := NewEngine(src, nil).Reconcile(ctx, "petstore", false)
	require.NoError(t, err)

	require.NotNil(t, in.LocalDiff)
	assert.True(t, in.LocalDiff.NoStoredSpec)
	assert.False(t, local.NoStoredSpec, "source value must not be modified")
	assert.Equal(t, []string{"GET:/a"}, ids(r.SpecUpdates))
	assert.Empty(t, r.Conflicts)
}

// blockingSource counts fetches and holds them until released.
type blockingSource struct {
	calls   int32
	release chan struct{}
}

func (b *blockingSource) SpecDiff(ctx context.Context, _ string) (*DiffSet, error) {
	atomic.AddInt32(&b.calls, 1)
	<-b.release
	return &DiffSet{}, nil
}

func (b *blockingSource) LocalDiff(context.Context, string, bool) (*DiffSet, error) {
	return &DiffSet{}, nil
}

func (b *blockingSource) RemoteDrift(context.Context, string, bool) (*DiffSet, error) {
	return &DiffSet{}, nil
}

func TestEngine_FetchCoalescesConcurrentCalls(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	engine := NewEngine(src, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = engine.Fetch(context.Background(), "petstore", false)
		}()
	}

	// Let the callers pile up behind the first fetch.
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&src.calls), int32(1))
	assert.Less(t, atomic.LoadInt32(&src.calls), int32(5))
}

func TestEngine_InvalidateStartsNewFetch(t *testing.T) {
	ctx := context.Background()
	src := new(mockSource)
	src.On("SpecDiff", mock.Anything, "petstore").Return(&DiffSet{}, nil).Twice()
	src.On("LocalDiff", mock.Anything, "petstore", false).Return(&DiffSet{}, nil).Twice()
	src.On("RemoteDrift", mock.Anything, "petstore", false).Return(&DiffSet{}, nil).Twice()

	engine := NewEngine(src, nil)
	_, err := engine.Fetch(ctx, "petstore", false)
	require.NoError(t, err)
	engine.Invalidate("petstore")
	_, err = engine.Fetch(ctx, "petstore", false)
	require.NoError(t, err)

	src.AssertNumberOfCalls(t, "SpecDiff", 2)
}

// ctxSource holds SpecDiff until released and records whether the context it
// was called with had been cancelled.
type ctxSource struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
	seen    chan error
}

func (c *ctxSource) SpecDiff(ctx context.Context, _ string) (*DiffSet, error) {
	c.once.Do(func() { close(c.started) })
	<-c.release
	select {
	case c.seen <- ctx.Err():
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &DiffSet{Added: []Endpoint{withID("POST:/a")}}, nil
}

func (c *ctxSource) LocalDiff(context.Context, string, bool) (*DiffSet, error) {
	return &DiffSet{}, nil
}

func (c *ctxSource) RemoteDrift(context.Context, string, bool) (*DiffSet, error) {
	return nil, errors.New("remote down")
}

func TestEngine_SharedFetchOutlivesCancelledCaller(t *testing.T) {
	src := &ctxSource{started: make(chan struct{}), release: make(chan struct{}), seen: make(chan error, 1)}
	engine := NewEngine(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := engine.Fetch(ctx, "petstore", false)
		done <- err
	}()

	<-src.started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(src.release)
	assert.NoError(t, <-src.seen, "the shared fetch must not see the caller's cancellation")

	in, err := engine.Fetch(context.Background(), "petstore", false)
	require.NoError(t, err)
	require.NotNil(t, in.SpecDiff)
}

package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrComparisonsUnavailable is returned when every comparison of a fetch failed.
// Classifying nothing would erase the previous result, so there is no result.
var ErrComparisonsUnavailable = errors.New("no comparison available")

// Engine fetches the three comparisons for a collection and classifies them.
type Engine struct {
	source  Source
	logger  *zap.Logger
	flights inflight
}

// NewEngine creates an engine reading from source.
func NewEngine(source Source, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{source: source, logger: logger}
}

// Reconcile fetches the comparisons and classifies them.
func (e *Engine) Reconcile(ctx context.Context, collection string, readFromDisk bool) (Inputs, Result, error) {
	in, err := e.Fetch(ctx, collection, readFromDisk)
	if err != nil {
		return Inputs{}, Result{}, err
	}
	return in, Classify(in), nil
}

// Fetch loads the three comparisons concurrently. A comparison that fails is
// logged and reported as absent so classification can fall back. Fetch fails
// when ctx is done or when all three comparisons failed.
// Concurrent calls for the same collection share one fetch.
func (e *Engine) Fetch(ctx context.Context, collection string, readFromDisk bool) (Inputs, error) {
	in, shared, err := e.flights.do(ctx, flightKey(collection, readFromDisk), func(ctx context.Context) (Inputs, error) {
		return e.fetch(ctx, collection, readFromDisk)
	})
	if shared {
		e.logger.Debug("Coalesced comparison fetch", zap.String("collection", collection))
	}
	return in, err
}

// Invalidate makes the next Fetch for collection start a new fetch even if
// one is still running.
func (e *Engine) Invalidate(collection string) {
	e.flights.forget(flightKey(collection, false))
	e.flights.forget(flightKey(collection, true))
}

// InvalidateCached makes the next cached-state Fetch for collection start a
// new fetch instead of joining one that is still running.
func (e *Engine) InvalidateCached(collection string) {
	e.flights.forget(flightKey(collection, false))
}

func (e *Engine) fetch(ctx context.Context, collection string, readFromDisk bool) (Inputs, error) {
	var (
		in                           Inputs
		specErr, localErr, remoteErr error
		wg                           sync.WaitGroup
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		in.SpecDiff, specErr = e.source.SpecDiff(ctx, collection)
	}()

	go func() {
		defer wg.Done()
		in.LocalDiff, localErr = e.source.LocalDiff(ctx, collection, readFromDisk)
	}()

	go func() {
		defer wg.Done()
		in.RemoteDrift, remoteErr = e.source.RemoteDrift(ctx, collection, readFromDisk)
	}()

	wg.Wait()

	if specErr != nil && localErr != nil && remoteErr != nil {
		return Inputs{}, fmt.Errorf("%w for %s: %w", ErrComparisonsUnavailable, collection, errors.Join(specErr, localErr, remoteErr))
	}

	if specErr != nil {
		e.logger.Warn("Spec comparison unavailable", zap.String("collection", collection), zap.Error(specErr))
		in.SpecDiff = nil
	}
	if localErr != nil {
		e.logger.Warn("Collection drift unavailable", zap.String("collection", collection), zap.Error(localErr))
		in.LocalDiff = nil
	}
	if remoteErr != nil {
		e.logger.Warn("Remote drift unavailable", zap.String("collection", collection), zap.Error(remoteErr))
		in.RemoteDrift = nil
	}

	// Without a stored spec the collection drift has nothing to compare against.
	if in.SpecDiff != nil && in.SpecDiff.StoredSpecMissing && in.LocalDiff != nil && !in.LocalDiff.NoStoredSpec {
		local := *in.LocalDiff
		local.NoStoredSpec = true
		in.LocalDiff = &local
	}

	return in, nil
}

package reconcile

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// inflight coalesces concurrent fetches for the same collection. Fetching is
// side-effect free, so callers arriving while a fetch runs share its result.
type inflight struct {
	sf singleflight.Group
}

func flightKey(collection string, readFromDisk bool) string {
	return collection + "|" + strconv.FormatBool(readFromDisk)
}

// do runs fn once per key among concurrent callers. The shared fetch does not
// inherit the cancellation of the caller that started it; each caller stops
// waiting when its own ctx is done.
func (f *inflight) do(ctx context.Context, key string, fn func(context.Context) (Inputs, error)) (Inputs, bool, error) {
	if err := ctx.Err(); err != nil {
		return Inputs{}, false, err
	}

	shared := context.WithoutCancel(ctx)
	ch := f.sf.DoChan(key, func() (interface{}, error) {
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return Inputs{}, false, ctx.Err()
	case res := <-ch:
		in, _ := res.Val.(Inputs)
		return in, res.Shared, res.Err
	}
}

// forget drops an in-progress key so the next caller starts a new fetch.
func (f *inflight) forget(key string) {
	f.sf.Forget(key)
}

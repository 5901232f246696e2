package store

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"openapi-sync/core/reconcile"
	"openapi-sync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ArchivedPlan is the object layout of an applied plan.
type ArchivedPlan struct {
	AppliedAt time.Time              `json:"appliedAt"`
	RayID     string                 `json:"rayId,omitempty"`
	Summary   reconcile.PlanSummary  `json:"summary"`
	Request   reconcile.ApplyRequest `json:"request"`
}

// PlanArchive keeps a copy of every applied plan under
// plans/<collection>/<unix-nano>-<uuid>.json.
type PlanArchive struct {
	client storage.Client
	bucket string
	now    func() time.Time
	newID  func() string
}

// NewPlanArchive creates an archive writing to bucket.
func NewPlanArchive(client storage.Client, bucket string) *PlanArchive {
	return &PlanArchive{client: client, bucket: bucket, now: time.Now, newID: uuid.NewString}
}

func planPrefix(collection string) string {
	return "plans/" + url.PathEscape(collection) + "/"
}

// PlanKey returns the object name of the archived plan name of collection.
func PlanKey(collection, name string) string {
	return planPrefix(collection) + name
}

// Save archives req and returns the object name.
func (a *PlanArchive) Save(ctx context.Context, req reconcile.ApplyRequest, rayID string) (string, error) {
	at := a.now().UTC()
	key := planPrefix(req.Collection) + strconv.FormatInt(at.UnixNano(), 10) + "-" + a.newID() + ".json"

	doc := ArchivedPlan{
		AppliedAt: at,
		RayID:     rayID,
		Summary:   req.Plan.Summary(),
		Request:   req,
	}
	if err := storage.PutJSON(ctx, a.client, a.bucket, key, doc); err != nil {
		return "", fmt.Errorf("failed to archive plan: %w", err)
	}
	return key, nil
}

// List returns the archived plan names of collection, newest first.
func (a *PlanArchive) List(ctx context.Context, collection string) ([]string, error) {
	opts := minio.ListObjectsOptions{Prefix: planPrefix(collection), Recursive: true}

	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived plans: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			keys = append(keys, obj.Key)
		}
	}

	// Names start with fixed-width nanosecond timestamps until 2286, so lexical order is chronological.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// Get reads one archived plan.
func (a *PlanArchive) Get(ctx context.Context, key string) (*ArchivedPlan, error) {
	var doc ArchivedPlan
	if err := storage.GetJSON(ctx, a.client, a.bucket, key, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Prune removes all but the newest keep plans of collection and returns how
// many were removed.
func (a *PlanArchive) Prune(ctx context.Context, collection string, keep int) (int, error) {
	keys, err := a.List(ctx, collection)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(keys) <= keep {
		return 0, nil
	}
	stale := keys[keep:]

	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for _, k := range stale {
			select {
			case objectsCh <- minio.ObjectInfo{Key: k}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var failed []string
	for rErr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed = append(failed, rErr.ObjectName)
	}
	if len(failed) > 0 {
		return len(stale) - len(failed), fmt.Errorf("failed to remove %d archived plans: %s", len(failed), strings.Join(failed, ", "))
	}
	return len(stale), nil
}

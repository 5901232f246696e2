package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"openapi-sync/core/reconcile"
	"openapi-sync/core/storage"
)

// decisionDocument is the object layout of a decision snapshot.
type decisionDocument struct {
	Collection string                        `json:"collection"`
	UpdatedAt  time.Time                     `json:"updatedAt"`
	Decisions  map[string]reconcile.Decision `json:"decisions"`
}

// ObjectPersistence stores each collection's decisions as one JSON object
// under decisions/<collection>.json.
type ObjectPersistence struct {
	client storage.Client
	bucket string
	now    func() time.Time
}

// NewObjectPersistence creates a persistence writing to bucket.
func NewObjectPersistence(client storage.Client, bucket string) *ObjectPersistence {
	return &ObjectPersistence{client: client, bucket: bucket, now: time.Now}
}

// DecisionKey returns the object name holding the decisions of collection.
func DecisionKey(collection string) string {
	return "decisions/" + url.PathEscape(collection) + ".json"
}

// Load returns the saved decisions. A collection never saved yields an empty map.
func (p *ObjectPersistence) Load(ctx context.Context, collection string) (map[string]reconcile.Decision, error) {
	var doc decisionDocument
	if err := storage.GetJSON(ctx, p.client, p.bucket, DecisionKey(collection), &doc); err != nil {
		if storage.IsNotFound(err) {
			return map[string]reconcile.Decision{}, nil
		}
		return nil, fmt.Errorf("failed to read decisions: %w", err)
	}
	if doc.Decisions == nil {
		doc.Decisions = map[string]reconcile.Decision{}
	}
	return doc.Decisions, nil
}

// Save overwrites the decision object of collection.
func (p *ObjectPersistence) Save(ctx context.Context, collection string, decisions map[string]reconcile.Decision) error {
	doc := decisionDocument{
		Collection: collection,
		UpdatedAt:  p.now().UTC(),
		Decisions:  decisions,
	}
	return storage.PutJSON(ctx, p.client, p.bucket, DecisionKey(collection), doc)
}

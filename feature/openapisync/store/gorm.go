package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"openapi-sync/core/reconcile"

	"gorm.io/gorm"
)

// DecisionRecord is one persisted decision.
type DecisionRecord struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Collection string    `gorm:"column:collection;type:varchar(191);not null;uniqueIndex:idx_collection_endpoint,priority:1"`
	EndpointID string    `gorm:"column:endpoint_id;type:varchar(512);not null;uniqueIndex:idx_collection_endpoint,priority:2"`
	Decision   string    `gorm:"column:decision;type:varchar(32);not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:datetime"`
}

// TableName overrides the GORM table name.
func (DecisionRecord) TableName() string {
	return "sync_decisions"
}

// GormPersistence stores decisions in the sync_decisions table.
type GormPersistence struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormPersistence creates a persistence backed by db.
func NewGormPersistence(db *gorm.DB) *GormPersistence {
	return &GormPersistence{db: db, now: time.Now}
}

// Load returns the saved decisions of collection. Unknown decision values are
// returned as-is; the decision store filters them.
func (p *GormPersistence) Load(ctx context.Context, collection string) (map[string]reconcile.Decision, error) {
	var records []DecisionRecord
	if err := p.db.WithContext(ctx).Where("collection = ?", collection).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}

	out := make(map[string]reconcile.Decision, len(records))
	for _, r := range records {
		out[r.EndpointID] = reconcile.Decision(r.Decision)
	}
	return out, nil
}

// Save replaces the decisions of collection in one transaction.
func (p *GormPersistence) Save(ctx context.Context, collection string, decisions map[string]reconcile.Decision) error {
	ids := make([]string, 0, len(decisions))
	for id := range decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	now := p.now()
	records := make([]DecisionRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, DecisionRecord{
			Collection: collection,
			EndpointID: id,
			Decision:   string(decisions[id]),
			UpdatedAt:  now,
		})
	}

	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&DecisionRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear decisions: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 500).Error; err != nil {
			return fmt.Errorf("failed to insert decisions: %w", err)
		}
		return nil
	})
}

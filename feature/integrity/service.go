package integrity

import (
	"context"
	"fmt"

	"openapi-sync/core/database"
	"openapi-sync/core/storage"
	"openapi-sync/feature/integrity/checks"
	"openapi-sync/feature/openapisync/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client    storage.Client
	bucket    string
	region    string
	logger    *zap.Logger
	db        *gorm.DB
	sourceDir string
}

// NewService creates a new integrity service. client and db may be nil when
// the corresponding backend is not configured; their checks then report an error.
func NewService(client storage.Client, bucket, region string, logger *zap.Logger, db *gorm.DB, sourceDir string) *Service {
	return &Service{
		client:    client,
		bucket:    bucket,
		region:    region,
		logger:    logger,
		db:        db,
		sourceDir: sourceDir,
	}
}

// Models lists the tables owned by the service.
func Models() []interface{} {
	return []interface{}{&store.DecisionRecord{}}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the bucket and the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return fmt.Errorf("object storage is not configured")
	}
	return checks.FixStructure(ctx, s.client, s.bucket, s.region, s.logger, missing)
}

// CheckSources parses every comparison file in the source directory.
func (s *Service) CheckSources() (*checks.SourceReport, error) {
	if s.sourceDir == "" {
		return nil, fmt.Errorf("source directory is not configured")
	}
	return checks.CheckSources(s.sourceDir)
}

// CheckSchema compares the decision table with its model.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, Models()...)
}

// FixSchema migrates the decision table.
func (s *Service) FixSchema() error {
	return database.Migrate(s.db, Models()...)
}

package cmd

import (
	"context"
	"fmt"

	"openapi-sync/core/config"
	"openapi-sync/core/database"
	"openapi-sync/core/reconcile"
	"openapi-sync/core/storage"
	"openapi-sync/feature/openapisync"
	"openapi-sync/feature/openapisync/files"
	"openapi-sync/feature/openapisync/remote"
	"openapi-sync/feature/openapisync/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// components holds the collaborators built from configuration.
// Optional backends are nil when unavailable.
type components struct {
	db      *gorm.DB
	storage storage.Client
	service *openapisync.Service
}

// buildComponents wires the sync service. Only an unusable source is fatal;
// unreachable database or storage degrade to in-memory decisions and no archive.
func buildComponents(ctx context.Context, cfg *config.Config, logg *zap.Logger) (*components, error) {
	c := &components{}
	sc := cfg.Sync

	// 1. Database (decisions)
	if sc.Persistence == reconcile.PersistenceDatabase {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else if err := database.Migrate(conn, &store.DecisionRecord{}); err != nil {
			logg.Warn("Decision table migration failed", zap.Error(err))
		} else {
			c.db = conn
			logg.Info("Connected to decision database", zap.String("database", cfg.Database.Name))
		}
	}

	// 2. Object storage (decisions and plan archive)
	if sc.Persistence == reconcile.PersistenceStorage || sc.ArchivePlans {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else if created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Storage bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else {
			if created {
				logg.Info("Created storage bucket", zap.String("bucket", cfg.Storage.Bucket))
			}
			c.storage = client
		}
	}

	persist := selectPersistence(sc.Persistence, c, cfg.Storage.Bucket, logg)

	source, err := selectSource(sc)
	if err != nil {
		return nil, err
	}

	var applier reconcile.Applier
	if sc.ApplyURL != "" {
		applier = remote.NewClient(sc.RemoteURL, sc.ApplyURL, sc.Token, sc.Timeout())
	} else if sc.Source == reconcile.SourceFiles {
		applier = files.NewOutbox(sc.SourceDir)
	}

	var archive *store.PlanArchive
	if sc.ArchivePlans && c.storage != nil {
		archive = store.NewPlanArchive(c.storage, cfg.Storage.Bucket)
	}

	c.service = openapisync.NewService(openapisync.Options{
		Engine:      reconcile.NewEngine(source, logg),
		Applier:     applier,
		Persistence: persist,
		Archive:     archive,
		KeepPlans:   sc.KeepPlans,
		GuardWindow: sc.GuardWindow(),
		Logger:      logg,
	})

	logg.Info("Sync service configured",
		zap.String("source", sc.Source),
		zap.String("persistence", persistenceName(persist)),
		zap.Bool("apply", applier != nil),
		zap.Bool("archive", archive != nil))

	return c, nil
}

func selectPersistence(kind string, c *components, bucket string, logg *zap.Logger) reconcile.DecisionPersistence {
	switch {
	case kind == reconcile.PersistenceDatabase && c.db != nil:
		return store.NewGormPersistence(c.db)
	case kind == reconcile.PersistenceStorage && c.storage != nil:
		return store.NewObjectPersistence(c.storage, bucket)
	case kind != reconcile.PersistenceMemory:
		logg.Warn("Decision backend unavailable, keeping decisions in memory", zap.String("persistence", kind))
	}
	return store.NewMemoryPersistence()
}

func selectSource(sc reconcile.Config) (reconcile.Source, error) {
	switch sc.Source {
	case reconcile.SourceFiles, "":
		return files.NewSource(sc.SourceDir), nil
	case reconcile.SourceRemote:
		if sc.RemoteURL == "" {
			return nil, fmt.Errorf("sync.remote_url is required for the remote source")
		}
		return remote.NewClient(sc.RemoteURL, sc.ApplyURL, sc.Token, sc.Timeout()), nil
	default:
		return nil, fmt.Errorf("unknown sync source %q", sc.Source)
	}
}

func persistenceName(p reconcile.DecisionPersistence) string {
	switch p.(type) {
	case *store.GormPersistence:
		return reconcile.PersistenceDatabase
	case *store.ObjectPersistence:
		return reconcile.PersistenceStorage
	default:
		return reconcile.PersistenceMemory
	}
}

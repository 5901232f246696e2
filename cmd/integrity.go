package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"openapi-sync/core/config"
	"openapi-sync/core/database"
	"openapi-sync/core/logger"
	"openapi-sync/core/storage"
	"openapi-sync/feature/integrity"
	"openapi-sync/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the sync backends",
	Long:  `Checks the storage bucket, the comparison source files and the decision table schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the storage bucket structure",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// sourcesCmd represents the integrity sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Check comparison source files",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check and migrate the decision table schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, sourcesCmd, schemaCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and folders")
	schemaCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the decision table")
}

func runIntegrityChecks(ctx context.Context, runStructure, runSources, runSchema bool) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create Storage Client
	var client storage.Client
	if runStructure {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if runSchema {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
		}
	}

	svc := integrity.NewService(client, cfg.Storage.Bucket, cfg.Storage.Region, logg, db, cfg.Sync.SourceDir)

	if runStructure {
		checkStructure(ctx, logg, svc)
	}

	if runSources {
		logg.Info("Checking comparison files...", zap.String("dir", cfg.Sync.SourceDir))
		report, err := svc.CheckSources()
		if err != nil {
			logg.Error("Source check failed", zap.Error(err))
		} else if len(report.Invalid) == 0 {
			logg.Info("Comparison files are readable.", zap.Strings("collections", report.Collections))
		} else {
			for name, reason := range report.Invalid {
				logg.Warn("Invalid comparison file", zap.String("file", name), zap.String("error", reason))
			}
		}
	}

	if runSchema {
		checkSchema(logg, svc)
	}
}

func checkStructure(ctx context.Context, logg *zap.Logger, svc *integrity.Service) {
	logg.Info("Checking bucket structure...")
	missing, err := svc.CheckStructure(ctx)
	if errors.Is(err, checks.ErrBucketMissing) && fixFlag {
		missing = checks.RequiredFolders
	} else if err != nil {
		logg.Fatal("Structure check failed", zap.Error(err))
	}

	if len(missing) == 0 {
		logg.Info("Structure is intact.")
		return
	}

	logg.Warn("Missing folders detected", zap.Strings("missing", missing))
	if !fixFlag {
		logg.Info("Run with --fix to create missing folders.")
		return
	}

	logg.Info("Fixing missing folders...")
	if err := svc.FixStructure(ctx, missing); err != nil {
		logg.Fatal("Failed to fix structure", zap.Error(err))
	}
	logg.Info("Structure fixed successfully.")
}

func checkSchema(logg *zap.Logger, svc *integrity.Service) {
	if fixFlag {
		logg.Info("Migrating decision schema...")
		if err := svc.FixSchema(); err != nil {
			logg.Error("Schema migration failed", zap.Error(err))
			return
		}
	}

	logg.Info("Checking decision schema integrity...")
	report, err := svc.CheckSchema()
	if err != nil {
		logg.Error("Schema check failed", zap.Error(err))
		return
	}

	if report.Matched {
		logg.Info("Decision schema matches expected definition.")
		return
	}

	logg.Warn("Decision schema mismatches found")
	for table, tblReport := range report.Tables {
		if tblReport.Status == "ok" {
			continue
		}
		if len(tblReport.MissingColumns) > 0 {
			logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
		}
		if len(tblReport.TypeMismatches) > 0 {
			logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
		}
	}
	for _, e := range report.Errors {
		logg.Error("Inspection Error", zap.String("error", e))
	}
	if !fixFlag {
		logg.Info("Run with --fix to migrate the decision table.")
	}
}

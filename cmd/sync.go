package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"openapi-sync/core/config"
	"openapi-sync/core/logger"
	"openapi-sync/core/reconcile"
	"openapi-sync/feature/openapisync"
	"openapi-sync/feature/openapisync/files"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncInputFile string
	syncMode      string
	acceptAll     bool
	keepAll       bool
	applyPlan     bool
	dryRunSync    bool
	yesConfirm    bool
)

// syncCmd reconciles one collection and optionally applies the plan.
var syncCmd = &cobra.Command{
	Use:   "sync <collection>",
	Short: "Reconcile a collection with its spec (report + optionally apply)",
	Long: `Reconcile a collection against its OpenAPI spec.

Reports endpoints per category and the resulting sync plan.
Conflicts, local modifications and removals can be decided in bulk
before the plan is applied.

Examples:
  # Report only
  sync petstore

  # Review diffs from a file instead of the configured source
  sync petstore --file ./diffs/petstore.yaml

  # Accept the spec for every reviewable endpoint and apply (with interactive confirmation)
  sync petstore --accept-all --apply

  # Reset the collection to the spec with auto-confirm (non-interactive)
  sync petstore --mode reset --apply --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncInputFile, "file", "", "Read diffs from a JSON or YAML file")
	syncCmd.Flags().StringVar(&syncMode, "mode", string(reconcile.ModeSync), "Apply mode (sync, spec-only, reset)")
	syncCmd.Flags().BoolVar(&acceptAll, "accept-all", false, "Accept incoming changes for every conflict, local modification and removal")
	syncCmd.Flags().BoolVar(&keepAll, "keep-all", false, "Keep local changes for every conflict, local modification and removal")
	syncCmd.Flags().BoolVar(&applyPlan, "apply", false, "Apply the plan through the configured applier")
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	collection := args[0]

	if acceptAll && keepAll {
		return fmt.Errorf("--accept-all and --keep-all are mutually exclusive")
	}
	mode := reconcile.Mode(syncMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", syncMode)
	}

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l = l.With(zap.String("collection", collection))

	comps, err := buildComponents(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to configure sync service: %w", err)
	}
	svc := comps.service

	// Step 1: Classify (always runs)
	l.Info("Reconciling collection...")
	var review *openapisync.Review
	if syncInputFile != "" {
		in, err := files.ReadInputs(syncInputFile)
		if err != nil {
			return fmt.Errorf("failed to read diffs: %w", err)
		}
		review = svc.Submit(ctx, collection, in)
	} else {
		review, _, err = svc.Refresh(ctx, collection, reconcile.TriggerDiskRead)
		if err != nil {
			return fmt.Errorf("failed to reconcile: %w", err)
		}
	}

	// Step 2: Bulk decisions
	if acceptAll || keepAll {
		d := reconcile.KeepMine
		if acceptAll {
			d = reconcile.AcceptIncoming
		}
		n, err := bulkDecide(ctx, l, svc, collection, d)
		if err != nil {
			return fmt.Errorf("failed to set decisions: %w", err)
		}
		l.Info("Applied bulk decision", zap.Int("count", n), zap.String("decision", string(d)))
		if review, err = svc.Review(collection); err != nil {
			return err
		}
	}

	// Step 3: Print report
	printSyncReport(l, review)

	plan, err := svc.Plan(collection)
	switch {
	case errors.Is(err, reconcile.ErrUnresolvedConflicts):
		if !applyPlan || mode != reconcile.ModeReset {
			l.Warn("Plan blocked by unresolved conflicts. Use --accept-all or --keep-all to resolve them.",
				zap.Strings("unresolved", review.Unresolved))
		}
	case err != nil:
		return fmt.Errorf("failed to build plan: %w", err)
	default:
		printPlan(l, plan)
	}

	// Step 4: Check if actions are requested
	if !applyPlan {
		l.Info("No actions requested. Use --apply to apply the plan.")
		return nil
	}
	if dryRunSync {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if mode != reconcile.ModeReset && !review.ReadyToApply {
		return fmt.Errorf("cannot apply %s: %w", collection, reconcile.ErrUnresolvedConflicts)
	}

	// Step 5: Apply (if confirmed)
	if mode == reconcile.ModeReset || (plan != nil && plan.Summary().Remove > 0) {
		if !confirmDestructiveAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	l.Info("Applying plan...", zap.String("mode", string(mode)))
	outcome, err := svc.Apply(ctx, collection, mode, "")
	if err != nil {
		return err
	}

	l.Info("Successfully applied plan",
		zap.Int("added", outcome.Summary.Add),
		zap.Int("updated", outcome.Summary.Update),
		zap.Int("removed", outcome.Summary.Remove),
		zap.Int("reset", outcome.Summary.Reset),
		zap.String("archive_key", outcome.ArchiveKey),
	)
	return nil
}

// bulkDecide sets d on every endpoint of every bulkable category and returns
// how many endpoints it touched.
func bulkDecide(ctx context.Context, l *zap.Logger, svc *openapisync.Service, collection string, d reconcile.Decision) (int, error) {
	total := 0
	for _, cat := range reconcile.Categories {
		if !reconcile.Bulkable(cat) {
			continue
		}
		n, err := svc.BulkSet(ctx, collection, cat, d)
		if err != nil {
			return total, err
		}
		l.Debug("Set category decision", zap.String("category", string(cat)), zap.Int("count", n))
		total += n
	}
	return total, nil
}

// printSyncReport prints the per-category counts and a sample of endpoints.
func printSyncReport(l *zap.Logger, review *openapisync.Review) {
	l.Info("Reconciliation report",
		zap.String("strategy", review.Strategy),
		zap.Int("total_endpoints", review.Result.Len()),
		zap.Int("new_in_spec", review.Counts[reconcile.CategoryNewInSpec]),
		zap.Int("spec_updates", review.Counts[reconcile.CategorySpecUpdate]),
		zap.Int("conflicts", review.Counts[reconcile.CategoryConflict]),
		zap.Int("local_modifications", review.Counts[reconcile.CategoryLocalModification]),
		zap.Int("removed_from_spec", review.Counts[reconcile.CategoryRemovedFromSpec]),
	)

	// Show sample of endpoints (max 5 per category)
	for _, cat := range reconcile.Categories {
		eps := review.Result.List(cat)
		maxShow := 5
		if len(eps) < maxShow {
			maxShow = len(eps)
		}
		for _, ep := range eps[:maxShow] {
			l.Info("Sample endpoint",
				zap.String("category", string(cat)),
				zap.String("id", ep.ID),
				zap.String("decision", string(review.Decisions[ep.ID])),
			)
		}
		if len(eps) > maxShow {
			l.Info("Additional endpoints not shown", zap.String("category", string(cat)), zap.Int("count", len(eps)-maxShow))
		}
	}
}

func printPlan(l *zap.Logger, plan *reconcile.SyncPlan) {
	s := plan.Summary()
	if plan.Empty() {
		l.Info("Collection is in sync. No actions required.", zap.Int("retain", s.Retain))
		return
	}
	l.Info("Planned actions",
		zap.Int("add", s.Add),
		zap.Int("update", s.Update),
		zap.Int("remove", s.Remove),
		zap.Int("reset", s.Reset),
		zap.Int("retain", s.Retain),
	)
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}

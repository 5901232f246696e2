package openapisync

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"openapi-sync/core/logger"
	"openapi-sync/core/reconcile"
	"openapi-sync/core/storage"
	"openapi-sync/feature/openapisync/store"

	"go.uber.org/zap"
)

var (
	// ErrUnknownSession is returned when a collection has not been reconciled yet.
	ErrUnknownSession = errors.New("collection has not been reconciled")
	// ErrApplyDisabled is returned when no applier is configured.
	ErrApplyDisabled = errors.New("apply is not configured")
	// ErrNotBulkable is returned for bulk actions on a category without a binary choice.
	ErrNotBulkable = errors.New("category does not support bulk decisions")
	// ErrNoArchive is returned when plan archiving is disabled.
	ErrNoArchive = errors.New("plan archive is not configured")
	// ErrUnknownPlan is returned for a missing archived plan.
	ErrUnknownPlan = errors.New("archived plan not found")
)

// Options configures a Service. Only Engine is required.
type Options struct {
	Engine      *reconcile.Engine
	Applier     reconcile.Applier
	Persistence reconcile.DecisionPersistence
	Archive     *store.PlanArchive
	// KeepPlans is how many archived plans to keep per collection. Zero keeps all.
	KeepPlans   int
	GuardWindow time.Duration
	Logger      *zap.Logger
}

// Service owns one reconciliation session per collection.
type Service struct {
	engine    *reconcile.Engine
	applier   reconcile.Applier
	persist   reconcile.DecisionPersistence
	archive   *store.PlanArchive
	keepPlans int
	window    time.Duration
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewService creates a service.
func NewService(opts Options) *Service {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{
		engine:    opts.Engine,
		applier:   opts.Applier,
		persist:   opts.Persistence,
		archive:   opts.Archive,
		keepPlans: opts.KeepPlans,
		window:    opts.GuardWindow,
		logger:    l,
		sessions:  make(map[string]*Session),
		now:       time.Now,
	}
}

// Session is the reconciliation state of one collection.
type Session struct {
	collection string
	store      *reconcile.DecisionStore
	guard      *reconcile.Guard

	mu          sync.RWMutex
	inputs      reconcile.Inputs
	result      reconcile.Result
	refreshedAt time.Time
	reconciled  bool

	// Recomputations are numbered as they start. diskSeq is the number of the
	// latest disk read started, installedSeq the number of the result held.
	seq          uint64
	diskSeq      uint64
	installedSeq uint64
}

// begin numbers a recomputation that is about to fetch.
func (s *Session) begin(readFromDisk bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if readFromDisk {
		s.diskSeq = s.seq
	}
	return s.seq
}

// discard drops the held result so the collection must be reconciled again.
func (s *Session) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = reconcile.Inputs{}
	s.result = reconcile.Result{}
	s.reconciled = false
}

func (s *Session) snapshot() (reconcile.Result, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.refreshedAt, s.reconciled
}

// Review is the reviewable state of a collection.
type Review struct {
	Collection   string                        `json:"collection"`
	Strategy     string                        `json:"strategy"`
	RefreshedAt  time.Time                     `json:"refreshedAt"`
	Result       reconcile.Result              `json:"result"`
	Counts       map[reconcile.Category]int    `json:"counts"`
	Decisions    map[string]reconcile.Decision `json:"decisions"`
	Unresolved   []string                      `json:"unresolved"`
	ReadyToApply bool                          `json:"readyToApply"`
}

// ApplyOutcome describes a successful apply.
type ApplyOutcome struct {
	Mode       reconcile.Mode        `json:"mode"`
	Summary    reconcile.PlanSummary `json:"summary"`
	ArchiveKey string                `json:"archiveKey,omitempty"`
	Review     *Review               `json:"review"`
}

// session returns the session of collection, creating it and loading its
// persisted decisions on first use.
func (s *Service) session(ctx context.Context, collection string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[collection]; ok {
		return sess
	}

	sess := &Session{
		collection: collection,
		store:      reconcile.NewDecisionStore(collection, s.persist),
		guard:      reconcile.NewGuard(s.window),
	}
	if err := sess.store.Load(ctx); err != nil {
		// Start with defaults; the next flush overwrites the unreadable state.
		logger.WithCollection(s.logger, collection).Warn("Failed to load saved decisions", zap.Error(err))
	}
	s.sessions[collection] = sess
	return sess
}

func (s *Service) existing(collection string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[collection]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, collection)
	}
	if _, _, reconciled := sess.snapshot(); !reconciled {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, collection)
	}
	return sess, nil
}

// Collections returns the collections with a session, sorted by name.
func (s *Service) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sessions))
	for name := range s.sessions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Refresh recomputes the reconciliation of collection from its source.
// A cached-state trigger inside the staleness window is suppressed and the
// current review returned; the bool reports whether a recomputation ran.
func (s *Service) Refresh(ctx context.Context, collection string, trigger reconcile.Trigger) (*Review, bool, error) {
	sess := s.session(ctx, collection)

	if !sess.guard.Allow(trigger) {
		logger.WithCollection(s.logger, collection).Debug("Suppressed stale recomputation", zap.String("trigger", string(trigger)))
		return s.current(sess)
	}
	return s.recompute(ctx, sess, trigger)
}

// recompute fetches and classifies the comparisons of sess. A failed fetch
// keeps the previous result. A result that finishes after a newer one was
// installed, or a cached-state result overtaken by a disk read, is dropped.
func (s *Service) recompute(ctx context.Context, sess *Session, trigger reconcile.Trigger) (*Review, bool, error) {
	l := logger.WithCollection(s.logger, sess.collection).With(zap.String("trigger", string(trigger)))
	readFromDisk := trigger == reconcile.TriggerDiskRead

	seq := sess.begin(readFromDisk)
	if readFromDisk {
		s.engine.InvalidateCached(sess.collection)
	}

	in, result, err := s.engine.Reconcile(ctx, sess.collection, readFromDisk)
	if err != nil {
		l.Warn("Reconciliation failed, keeping previous result", zap.Error(err))
		return nil, false, fmt.Errorf("failed to reconcile %s: %w", sess.collection, err)
	}

	if !s.install(sess, in, result, seq, readFromDisk) {
		l.Debug("Discarded out-of-date recomputation")
		return s.current(sess)
	}

	l.Info("Reconciled collection",
		zap.String("strategy", result.Strategy),
		zap.Int("endpoints", result.Len()),
		zap.Int("conflicts", len(result.Conflicts)))

	return s.review(sess), true, nil
}

// current returns the held review of sess without recomputing.
func (s *Service) current(sess *Session) (*Review, bool, error) {
	if _, _, reconciled := sess.snapshot(); !reconciled {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownSession, sess.collection)
	}
	return s.review(sess), false, nil
}

// ObserveCollectionSize reports the current request count of collection and
// recomputes from cached state when it changed outside the staleness window.
func (s *Service) ObserveCollectionSize(ctx context.Context, collection string, size int) (*Review, bool, error) {
	sess := s.session(ctx, collection)
	if !sess.guard.ObserveCollectionSize(size) {
		if _, _, reconciled := sess.snapshot(); !reconciled {
			return s.Refresh(ctx, collection, reconcile.TriggerDiskRead)
		}
		return s.review(sess), false, nil
	}
	return s.recompute(ctx, sess, reconcile.TriggerCachedState)
}

// Submit classifies comparisons supplied by the caller instead of the source.
// They count as a fresh disk read.
func (s *Service) Submit(ctx context.Context, collection string, in reconcile.Inputs) *Review {
	sess := s.session(ctx, collection)
	sess.guard.MarkDiskRead()
	seq := sess.begin(true)
	s.engine.InvalidateCached(collection)
	s.install(sess, in, reconcile.Classify(in), seq, true)
	return s.review(sess)
}

// install stores result as the state of sess unless it is out of date, and
// reports whether it did.
func (s *Service) install(sess *Session, in reconcile.Inputs, result reconcile.Result, seq uint64, readFromDisk bool) bool {
	sess.mu.Lock()
	if seq < sess.installedSeq || (!readFromDisk && seq < sess.diskSeq) {
		sess.mu.Unlock()
		return false
	}
	sess.installedSeq = seq
	sess.inputs = in
	sess.result = result
	sess.refreshedAt = s.now()
	sess.reconciled = true
	// Defaults are merged under the session lock so a concurrent install
	// cannot seed decisions from a result that is no longer held.
	sess.store.MergeDefaults(result)
	sess.mu.Unlock()
	return true
}

// Review returns the current state of collection.
func (s *Service) Review(collection string) (*Review, error) {
	sess, err := s.existing(collection)
	if err != nil {
		return nil, err
	}
	return s.review(sess), nil
}

func (s *Service) review(sess *Session) *Review {
	result, at, _ := sess.snapshot()

	counts := make(map[reconcile.Category]int, len(reconcile.Categories))
	for _, c := range reconcile.Categories {
		counts[c] = len(result.List(c))
	}

	unresolved := sess.store.Unresolved()
	if unresolved == nil {
		unresolved = []string{}
	}

	return &Review{
		Collection:   sess.collection,
		Strategy:     result.Strategy,
		RefreshedAt:  at,
		Result:       result,
		Counts:       counts,
		Decisions:    sess.store.Snapshot(),
		Unresolved:   unresolved,
		ReadyToApply: len(unresolved) == 0,
	}
}

// SetDecision records the decision for one endpoint and persists the store.
func (s *Service) SetDecision(ctx context.Context, collection, id string, d reconcile.Decision) (*Review, error) {
	sess, err := s.existing(collection)
	if err != nil {
		return nil, err
	}
	if err := sess.store.Set(id, d); err != nil {
		return nil, err
	}
	s.flush(ctx, sess)
	return s.review(sess), nil
}

// BulkSet assigns d to every endpoint of category and persists the store.
func (s *Service) BulkSet(ctx context.Context, collection string, category reconcile.Category, d reconcile.Decision) (int, error) {
	if !reconcile.Bulkable(category) {
		return 0, fmt.Errorf("%w: %q", ErrNotBulkable, category)
	}
	sess, err := s.existing(collection)
	if err != nil {
		return 0, err
	}

	result, _, _ := sess.snapshot()
	n, err := sess.store.BulkSet(result.List(category), d)
	if err != nil {
		return 0, err
	}
	s.flush(ctx, sess)
	return n, nil
}

// flush persists decisions. Persistence failures keep the in-memory state and are logged.
func (s *Service) flush(ctx context.Context, sess *Session) {
	if err := sess.store.Flush(ctx); err != nil {
		logger.WithCollection(s.logger, sess.collection).Warn("Failed to persist decisions", zap.Error(err))
	}
}

// Plan builds the sync plan of collection from the current decisions.
func (s *Service) Plan(collection string) (*reconcile.SyncPlan, error) {
	sess, err := s.existing(collection)
	if err != nil {
		return nil, err
	}
	result, _, _ := sess.snapshot()
	return reconcile.BuildPlan(result, sess.store)
}

// planFor builds the plan for mode. Reset accepts the spec everywhere, so
// pending conflicts cannot block it.
func planFor(mode reconcile.Mode, result reconcile.Result, decisions map[string]reconcile.Decision) (*reconcile.SyncPlan, map[string]reconcile.Decision, error) {
	if mode == reconcile.ModeReset {
		accepted := make(map[string]reconcile.Decision, result.Len())
		for _, id := range result.IDs() {
			accepted[id] = reconcile.AcceptIncoming
		}
		plan := reconcile.ProjectPlan(result, reconcile.DecisionMap{Decisions: accepted})
		return &plan, accepted, nil
	}
	current := make(map[string]reconcile.Decision, result.Len())
	for _, id := range result.IDs() {
		if d, ok := decisions[id]; ok {
			current[id] = d
		}
	}
	plan, err := reconcile.BuildPlan(result, reconcile.DecisionMap{Decisions: current, Result: &result})
	return plan, current, err
}

// Apply sends the plan of collection to the applier. On success the plan is
// archived, decisions are cleared and the collection is reconciled again from
// disk. On failure nothing changes.
func (s *Service) Apply(ctx context.Context, collection string, mode reconcile.Mode, rayID string) (*ApplyOutcome, error) {
	if s.applier == nil {
		return nil, ErrApplyDisabled
	}
	sess, err := s.existing(collection)
	if err != nil {
		return nil, err
	}
	if !mode.Valid() {
		mode = reconcile.ModeSync
	}
	l := logger.WithCollection(s.logger, collection).With(zap.String("mode", string(mode)))

	result, _, _ := sess.snapshot()
	plan, decisions, err := planFor(mode, result, sess.store.Snapshot())
	if err != nil {
		return nil, err
	}

	req := reconcile.NewApplyRequest(collection, mode, *plan, decisions)
	if err := s.applier.Apply(ctx, req); err != nil {
		l.Error("Apply failed", zap.Error(err))
		return nil, fmt.Errorf("failed to apply plan: %w", err)
	}

	outcome := &ApplyOutcome{Mode: mode, Summary: plan.Summary()}
	l.Info("Applied sync plan",
		zap.Int("added", outcome.Summary.Add),
		zap.Int("updated", outcome.Summary.Update),
		zap.Int("removed", outcome.Summary.Remove),
		zap.Int("reset", outcome.Summary.Reset),
		zap.Int("retained", outcome.Summary.Retain))

	if s.archive != nil {
		key, err := s.archive.Save(ctx, req, rayID)
		if err != nil {
			l.Warn("Failed to archive applied plan", zap.Error(err))
		} else {
			outcome.ArchiveKey = key
			if s.keepPlans > 0 {
				if _, err := s.archive.Prune(ctx, collection, s.keepPlans); err != nil {
					l.Warn("Failed to prune archived plans", zap.Error(err))
				}
			}
		}
	}

	sess.store.Reset()
	s.flush(ctx, sess)
	s.engine.Invalidate(collection)

	review, _, err := s.Refresh(ctx, collection, reconcile.TriggerDiskRead)
	if err != nil {
		// The held result predates the apply; it must not be applied again.
		l.Warn("Failed to reconcile after apply", zap.Error(err))
		sess.discard()
		return outcome, nil
	}
	outcome.Review = review
	return outcome, nil
}

// History lists the file names of the archived plans of collection, newest first.
func (s *Service) History(ctx context.Context, collection string) ([]string, error) {
	if s.archive == nil {
		return []string{}, nil
	}
	keys, err := s.archive.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, path.Base(k))
	}
	return names, nil
}

// ArchivedPlan reads one archived plan of collection by its file name.
func (s *Service) ArchivedPlan(ctx context.Context, collection, name string) (*store.ArchivedPlan, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	name = path.Base(name)
	if name == "." || name == "/" || strings.ContainsAny(name, "\\") || !strings.HasSuffix(name, ".json") {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, name)
	}

	doc, err := s.archive.Get(ctx, store.PlanKey(collection, name))
	if storage.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, name)
	}
	return doc, err
}

package reconcile

import "time"

// Source kinds.
const (
	SourceFiles  = "files"
	SourceRemote = "remote"
)

// Persistence backends for decisions.
const (
	PersistenceDatabase = "database"
	PersistenceStorage  = "storage"
	PersistenceMemory   = "memory"
)

// Config holds configuration for the engine and the collaborators wired to it.
type Config struct {
	// GuardWindowMs is how long a disk read suppresses cached-state recomputation.
	GuardWindowMs int `mapstructure:"guard_window_ms" default:"3000"`
	// Source selects where comparisons come from (files, remote).
	Source string `mapstructure:"source" default:"files"`
	// SourceDir holds <collection>.json or <collection>.yaml comparison files.
	SourceDir string `mapstructure:"source_dir" default:"./diffs"`
	// RemoteURL is the base URL of the differencing service.
	RemoteURL string `mapstructure:"remote_url" default:""`
	// ApplyURL is the endpoint receiving apply requests. Empty disables apply.
	ApplyURL string `mapstructure:"apply_url" default:""`
	// Token is sent as a bearer token to the remote collaborators.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds each remote call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Persistence selects the decision backend (database, storage, memory).
	Persistence string `mapstructure:"persistence" default:"database"`
	// ArchivePlans stores every applied plan in object storage.
	ArchivePlans bool `mapstructure:"archive_plans" default:"true"`
	// KeepPlans is how many archived plans to keep per collection. Zero keeps all.
	KeepPlans int `mapstructure:"keep_plans" default:"20"`
}

// GuardWindow returns the staleness window as a duration.
func (c Config) GuardWindow() time.Duration {
	if c.GuardWindowMs <= 0 {
		return DefaultGuardWindow
	}
	return time.Duration(c.GuardWindowMs) * time.Millisecond
}

// Timeout returns the remote call timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

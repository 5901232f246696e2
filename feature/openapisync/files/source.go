package files

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"openapi-sync/core/reconcile"

	"github.com/goccy/go-yaml"
)

// Extensions tried, in order, for a collection's comparison file.
var Extensions = []string{".json", ".yaml", ".yml"}

// ErrNotFound is returned when no comparison file exists for a collection.
var ErrNotFound = fmt.Errorf("comparison file not found")

// ReadInputs reads one comparison document. JSON and YAML are accepted; the
// format is chosen by extension. Only unreadable or malformed files are errors.
func ReadInputs(path string) (reconcile.Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return reconcile.Inputs{}, err
	}
	return ParseInputs(data, filepath.Ext(path))
}

// ParseInputs decodes a comparison document in the format named by ext.
func ParseInputs(data []byte, ext string) (reconcile.Inputs, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return reconcile.Inputs{}, fmt.Errorf("failed to parse yaml comparisons: %w", err)
		}
		return reconcile.DecodeInputs(raw), nil
	default:
		return reconcile.ParseInputs(data)
	}
}

type cached struct {
	modTime time.Time
	inputs  reconcile.Inputs
}

// Source serves comparisons from <dir>/<collection>.{json,yaml,yml}.
// Parsed files are cached; readFromDisk bypasses the cache, and so does a
// changed modification time.
type Source struct {
	dir   string
	mu    sync.Mutex
	cache map[string]cached
}

// NewSource creates a source reading from dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir, cache: make(map[string]cached)}
}

// SpecDiff implements reconcile.Source.
func (s *Source) SpecDiff(_ context.Context, collection string) (*reconcile.DiffSet, error) {
	in, err := s.load(collection, false)
	return in.SpecDiff, err
}

// LocalDiff implements reconcile.Source.
func (s *Source) LocalDiff(_ context.Context, collection string, readFromDisk bool) (*reconcile.DiffSet, error) {
	in, err := s.load(collection, readFromDisk)
	return in.LocalDiff, err
}

// RemoteDrift implements reconcile.Source.
func (s *Source) RemoteDrift(_ context.Context, collection string, readFromDisk bool) (*reconcile.DiffSet, error) {
	in, err := s.load(collection, readFromDisk)
	return in.RemoteDrift, err
}

// Path returns the comparison file of collection.
func (s *Source) Path(collection string) (string, os.FileInfo, error) {
	if collection == "" || strings.ContainsAny(collection, `/\`) || collection == "." || collection == ".." {
		return "", nil, fmt.Errorf("invalid collection name %q", collection)
	}
	for _, ext := range Extensions {
		p := filepath.Join(s.dir, collection+ext)
		if info, err := os.Stat(p); err == nil {
			return p, info, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %s", ErrNotFound, collection)
}

func (s *Source) load(collection string, fresh bool) (reconcile.Inputs, error) {
	path, info, err := s.Path(collection)
	if err != nil {
		return reconcile.Inputs{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[collection]; ok && !fresh && c.modTime.Equal(info.ModTime()) {
		return c.inputs, nil
	}

	in, err := ReadInputs(path)
	if err != nil {
		return reconcile.Inputs{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	s.cache[collection] = cached{modTime: info.ModTime(), inputs: in}
	return in, nil
}

// Outbox implements reconcile.Applier by writing each apply request to
// <dir>/<collection>.apply.json for an external process to pick up.
type Outbox struct {
	dir string
}

// NewOutbox creates an outbox writing to dir.
func NewOutbox(dir string) *Outbox {
	return &Outbox{dir: dir}
}

// Apply writes req, replacing any pending request of the same collection.
func (o *Outbox) Apply(ctx context.Context, req reconcile.ApplyRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Collection == "" || strings.ContainsAny(req.Collection, `/\`) {
		return fmt.Errorf("invalid collection name %q", req.Collection)
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal apply request: %w", err)
	}

	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create outbox: %w", err)
	}

	// Write then rename so readers never see a partial file.
	target := filepath.Join(o.dir, req.Collection+".apply.json")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write apply request: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to publish apply request: %w", err)
	}
	return nil
}

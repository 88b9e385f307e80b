// Package archive persists audit traces to the file system, one JSON
// envelope per trace, with a checksum verified on reload.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/biograph-labs/episteme/core"
)

// Store implements core.ProvenanceSink over a directory of trace
// envelopes. Envelopes are loaded into an in-memory cache on startup
// and indexed by status.
type Store struct {
	dir    string
	logger *zap.Logger

	mu     sync.RWMutex
	cache  map[string]*Envelope
	byStat map[core.TraceStatus][]*Envelope
}

// NewStore opens (and if needed creates) an archive directory and
// loads the envelopes already in it.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		dir:    dir,
		logger: logger,
		cache:  make(map[string]*Envelope),
		byStat: make(map[core.TraceStatus][]*Envelope),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read archive directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := s.loadEnvelope(path); err != nil {
			s.logger.Warn("skipping unreadable envelope", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

func (s *Store) loadEnvelope(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read envelope: %w", err)
	}
	env, err := FromJSON(data)
	if err != nil {
		return fmt.Errorf("parse envelope: %w", err)
	}
	if err := env.Validate(); err != nil {
		return fmt.Errorf("invalid envelope: %w", err)
	}
	s.cache[env.ID] = env
	s.byStat[env.Status] = append(s.byStat[env.Status], env)
	return nil
}

// LogTrace seals the trace and writes it to disk. The write goes
// through a temp file and rename so a crash never leaves a truncated
// envelope in the archive.
func (s *Store) LogTrace(ctx context.Context, id string, trace *core.Trace) error {
	env, err := NewEnvelope(id, trace)
	if err != nil {
		return err
	}
	data, err := env.ToJSON()
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	path := filepath.Join(s.dir, sanitize(id)+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit envelope: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[env.ID] = env
	s.byStat[env.Status] = append(s.byStat[env.Status], env)
	return nil
}

// Get returns an archived envelope by sink id.
func (s *Store) Get(id string) (*Envelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, ok := s.cache[id]
	return env, ok
}

// FindByStatus returns envelopes archived with the given status.
func (s *Store) FindByStatus(status core.TraceStatus) []*Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Envelope{}, s.byStat[status]...)
}

// List returns every archived envelope id.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.cache))
	for id := range s.cache {
		ids = append(ids, id)
	}
	return ids
}

// sanitize keeps ids filesystem-safe.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}

// Package persist stores the project list as a single JSON document.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeanpaul/proyectos/internal/project"
)

// document is the on-disk shape. Field order is the write order.
type document struct {
	NextID   *int              `json:"contador_id,omitempty"`
	Projects []json.RawMessage `json:"proyectos"`
}

type outDocument struct {
	NextID   int               `json:"contador_id"`
	Projects []project.Project `json:"proyectos"`
}

// Skipped describes a record that could not be loaded.
type Skipped struct {
	Index int
	Err   error
}

// LoadResult summarizes a Load call.
type LoadResult struct {
	Found   bool // false when the file did not exist
	Loaded  int
	Skipped []Skipped
}

// File reads and writes the project document at Path.
type File struct {
	Path string

	mu  sync.Mutex // serializes file access
	log *zap.Logger
}

// NewFile returns a persister for path. A nil logger disables logging.
func NewFile(path string, log *zap.Logger) *File {
	if log == nil {
		log = zap.NewNop()
	}
	return &File{Path: path, log: log.Named("persist")}
}

// Encode renders the store as the bytes Save would write.
func Encode(s *project.Store) ([]byte, error) {
	nextID, projects := s.Snapshot()
	doc := outDocument{NextID: nextID, Projects: projects}
	if doc.Projects == nil {
		doc.Projects = []project.Project{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the whole store to disk, replacing the previous file. The
// snapshot is taken under the writer lock, so the last Save to finish always
// writes the newest state.
func (f *File) Save(s *project.Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}

	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	f.log.Debug("saved projects", zap.String("path", f.Path), zap.Int("count", s.Len()))
	return nil
}

// Load reads the document into a new store. A missing file yields an empty
// store and Found=false. Records that fail validation are skipped and logged.
func (f *File) Load() (*project.Store, LoadResult, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.Path)
	f.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return project.NewStore(), LoadResult{}, nil
		}
		return project.NewStore(), LoadResult{}, fmt.Errorf("read %s: %w", f.Path, err)
	}

	store, res, err := Decode(data, f.log)
	res.Found = true
	if err != nil {
		return store, res, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	f.log.Info("loaded projects",
		zap.String("path", f.Path),
		zap.Int("loaded", res.Loaded),
		zap.Int("skipped", len(res.Skipped)))
	return store, res, nil
}

// Quarantine moves an unreadable data file aside so the next Save does not
// overwrite it. It returns the new path.
func (f *File) Quarantine(now time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dst := fmt.Sprintf("%s.corrupt-%s", f.Path, now.Format("20060102-150405"))
	if err := os.Rename(f.Path, dst); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", f.Path, err)
	}
	f.log.Warn("moved unreadable data file aside", zap.String("path", f.Path), zap.String("backup", dst))
	return dst, nil
}

// Decode parses a project document. Only a malformed top level is an error;
// bad records are reported in the result.
func Decode(data []byte, log *zap.Logger) (*project.Store, LoadResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var res LoadResult
	store := project.NewStore()

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return store, res, err
	}

	projects := make([]project.Project, 0, len(doc.Projects))
	seen := make(map[int]bool, len(doc.Projects))
	for i, raw := range doc.Projects {
		p, err := decodeRecord(raw)
		if err == nil && seen[p.ID] {
			err = fmt.Errorf("duplicate id %d", p.ID)
		}
		if err != nil {
			log.Warn("skipping malformed project", zap.Int("index", i), zap.Error(err))
			res.Skipped = append(res.Skipped, Skipped{Index: i, Err: err})
			continue
		}
		seen[p.ID] = true
		projects = append(projects, p)
	}

	nextID := 1
	if doc.NextID != nil {
		nextID = *doc.NextID
	}
	store.Restore(nextID, projects)
	res.Loaded = len(projects)
	return store, res, nil
}

func decodeRecord(raw json.RawMessage) (project.Project, error) {
	var p project.Project
	if err := validateRecord(raw); err != nil {
		return p, err
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, err
	}
	return p, nil
}

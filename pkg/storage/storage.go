package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Workflow is a stored workflow definition plus its metadata.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WorkflowSummary is a lightweight workflow reference for listing.
type WorkflowSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists named workflow definitions. A stored workflow's Name is
// its addressable key: "pflow <name>" (without a path separator or .json
// suffix) resolves through this interface rather than the filesystem
// directly.
type Store interface {
	// Save creates or overwrites the workflow called name.
	Save(name, description string, data json.RawMessage) (string, error)

	// Load retrieves a workflow by name.
	Load(name string) (*Workflow, error)

	// Delete removes a workflow by name.
	Delete(name string) error

	// List returns every stored workflow's summary.
	List() ([]WorkflowSummary, error)

	// Exists checks whether a workflow called name is stored.
	Exists(name string) bool
}

// FileStore is a Store backed by one JSON file per workflow under
// {baseDir}/workflows/<name>.json. baseDir is normally PFLOW_HOME; the
// caller is responsible for resolving PFLOW_HOME's default (~/.pflow).
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the workflows directory under baseDir if needed and
// returns a FileStore rooted there.
func NewFileStore(baseDir string) (*FileStore, error) {
	dir := filepath.Join(baseDir, "workflows")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes name's workflow to disk, generating a fresh ID and CreatedAt
// on first save and preserving the original ID/CreatedAt on overwrite.
func (s *FileStore) Save(name, description string, data json.RawMessage) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidWorkflow)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: data is required", ErrInvalidWorkflow)
	}
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("%w: invalid workflow data: %v", ErrInvalidWorkflow, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	wf := Workflow{ID: uuid.New().String(), Name: name, Description: description, Data: data, CreatedAt: now, UpdatedAt: now}

	if existing, err := s.read(name); err == nil {
		wf.ID = existing.ID
		wf.CreatedAt = existing.CreatedAt
	}

	if err := s.write(name, &wf); err != nil {
		return "", err
	}
	return wf.ID, nil
}

// Load retrieves a workflow by name.
func (s *FileStore) Load(name string) (*Workflow, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrWorkflowNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(name)
}

// Delete removes a workflow by name.
func (s *FileStore) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrWorkflowNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.read(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("storage: deleting %q: %w", name, err)
	}
	return nil
}

// List returns every stored workflow's summary, in directory order.
func (s *FileStore) List() ([]WorkflowSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("storage: listing %s: %w", s.dir, err)
	}

	summaries := make([]WorkflowSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		wf, err := s.read(name)
		if err != nil {
			continue
		}
		summaries = append(summaries, WorkflowSummary{
			ID: wf.ID, Name: wf.Name, Description: wf.Description,
			CreatedAt: wf.CreatedAt, UpdatedAt: wf.UpdatedAt,
		})
	}
	return summaries, nil
}

// Exists checks whether a workflow called name is stored.
func (s *FileStore) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *FileStore) read(name string) (*Workflow, error) {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, name)
		}
		return nil, fmt.Errorf("storage: reading %q: %w", name, err)
	}
	var wf Workflow
	if err := json.Unmarshal(raw, &wf); err != nil {
		return nil, fmt.Errorf("storage: decoding %q: %w", name, err)
	}
	return &wf, nil
}

func (s *FileStore) write(name string, wf *Workflow) error {
	raw, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encoding %q: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), raw, 0o644); err != nil {
		return fmt.Errorf("storage: writing %q: %w", name, err)
	}
	return nil
}

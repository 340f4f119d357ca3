package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/modelviz/modelviz/pkg/errors"
)

// FileStore persists inspections as JSON files in a directory, one file per
// inspection. Suitable for CLI usage and single-instance deployments.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Save creates or replaces an inspection by name.
func (s *FileStore) Save(ctx context.Context, insp *Inspection) error {
	if err := errors.ValidateInspectionName(insp.Name); err != nil {
		return err
	}

	now := time.Now().UTC()
	if insp.CreatedAt.IsZero() {
		insp.CreatedAt = now
	}
	insp.UpdatedAt = now

	data, err := json.MarshalIndent(insp, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal inspection %s", insp.Name)
	}
	if err := os.WriteFile(s.path(insp.Name), data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write inspection %s", insp.Name)
	}
	return nil
}

// Load retrieves an inspection by name.
func (s *FileStore) Load(ctx context.Context, name string) (*Inspection, error) {
	if err := errors.ValidateInspectionName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeInspectionNotFound, "inspection %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read inspection %s", name)
	}

	var insp Inspection
	if err := json.Unmarshal(data, &insp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode inspection %s", name)
	}
	return &insp, nil
}

// List returns all saved inspection names, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list store dir")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an inspection by name.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateInspectionName(name); err != nil {
		return err
	}

	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeInspectionNotFound, "inspection %q not found", name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete inspection %s", name)
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

// path maps an inspection name to its file. Names are validated before use,
// so no path traversal is possible here.
func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

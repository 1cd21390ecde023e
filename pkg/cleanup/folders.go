package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FolderDeleter resolves and removes per-case folders. Implemented by
// FolderStore; the sweeper depends on this interface so tests can inject
// failures.
type FolderDeleter interface {
	// Path returns the folder path for (ownerID, caseID).
	Path(ownerID, caseID string) string

	// Remove deletes the folder and everything beneath it. Removing a
	// missing folder is a no-op success.
	Remove(ctx context.Context, ownerID, caseID string) error
}

// FolderStore manages the on-disk case folder hierarchy rooted at a single
// directory. Folders are laid out as <root>/<owner_id>/<case_id>; the path is
// a pure function of the two identifiers, no lookup is needed.
type FolderStore struct {
	root   string
	logger *slog.Logger
}

// NewFolderStore creates a folder store rooted at dir.
func NewFolderStore(dir string) *FolderStore {
	return &FolderStore{
		root:   dir,
		logger: slog.Default().With("component", "cleanup.folders"),
	}
}

// Root returns the root directory of the store.
func (f *FolderStore) Root() string {
	return f.root
}

// Path returns the folder path for (ownerID, caseID).
func (f *FolderStore) Path(ownerID, caseID string) string {
	return filepath.Join(f.root, ownerID, caseID)
}

// validateID rejects identifiers that would escape the store root.
func validateID(kind, id string) error {
	if id == "" {
		return fmt.Errorf("empty %s", kind)
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("invalid %s %q", kind, id)
	}
	return nil
}

// Remove deletes the case folder and all files beneath it. A folder that
// does not exist is treated as already removed.
//
// os.RemoveAll does not take a context, so the deletion runs in a goroutine
// and the context bounds how long the caller waits. On timeout the goroutine
// is abandoned; the partially removed folder stays eligible for the next run.
func (f *FolderStore) Remove(ctx context.Context, ownerID, caseID string) error {
	if err := validateID("owner id", ownerID); err != nil {
		return err
	}
	if err := validateID("case id", caseID); err != nil {
		return err
	}

	path := f.Path(ownerID, caseID)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f.logger.Debug("case folder already absent",
			"owner_id", ownerID,
			"case_id", caseID,
			"path", path,
		)
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- os.RemoveAll(path)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("remove case folder %q: %w", path, err)
		}
		f.logger.Debug("case folder removed",
			"owner_id", ownerID,
			"case_id", caseID,
			"path", path,
		)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("remove case folder %q: %w", path, ctx.Err())
	}
}

// WriteFile stores a file inside the case folder, creating the folder on
// first write. This is how case artifacts (case JSON, DOCX exports, uploaded
// evidence) land on disk.
func (f *FolderStore) WriteFile(ownerID, caseID, name string, data []byte) error {
	if err := validateID("owner id", ownerID); err != nil {
		return err
	}
	if err := validateID("case id", caseID); err != nil {
		return err
	}
	if err := validateID("file name", name); err != nil {
		return err
	}

	dir := f.Path(ownerID, caseID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create case folder %q: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write case file %q: %w", path, err)
	}

	return nil
}

// Exists reports whether the case folder is present on disk.
func (f *FolderStore) Exists(ownerID, caseID string) bool {
	_, err := os.Stat(f.Path(ownerID, caseID))
	return err == nil
}

package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/format"
)

// FileStore keeps each document as a JSON file in one directory.
//
// Saves are atomic: the document is written to a temporary file in the same
// directory and renamed over the target, so a crash mid-save never corrupts
// the previous version. When backups are enabled the previous version is
// kept alongside with a .bak suffix.
type FileStore struct {
	dir     string
	backups bool
}

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// Backups keeps the previous version of a document as <name>.json.bak
	// on every save.
	Backups bool
}

// NewFileStore creates a document store rooted at dir, creating the
// directory if needed. If dir is empty, ~/.local/share/mindgrid/ is used.
func NewFileStore(dir string, opts FileStoreOptions) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
		}
		dir = filepath.Join(home, ".local", "share", "mindgrid")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}
	return &FileStore{dir: dir, backups: opts.Backups}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Save writes doc under name atomically, backing up the previous version
// first when backups are enabled.
func (s *FileStore) Save(ctx context.Context, name string, doc format.Document) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(name)
	if s.backups {
		if _, err := os.Stat(path); err == nil {
			prev, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "read previous %s", name)
			}
			if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write backup for %s", name)
			}
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode %s", name)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file for %s", name)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close temp file for %s", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "replace %s", name)
	}
	return nil
}

// Load reads the document stored under name.
func (s *FileStore) Load(ctx context.Context, name string) (format.Document, error) {
	if err := validateName(name); err != nil {
		return format.Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return format.Document{}, err
	}

	data, err := os.ReadFile(s.path(name))
	if os.IsNotExist(err) {
		return format.Document{}, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	if err != nil {
		return format.Document{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", name)
	}

	var doc format.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return format.Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", name)
	}
	return doc, nil
}

// List returns infos for every stored document, sorted by name.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", s.dir)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		fname := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fname, ".json") || strings.HasPrefix(fname, ".") {
			continue
		}
		name := strings.TrimSuffix(fname, ".json")
		doc, err := s.Load(ctx, name)
		if err != nil {
			// Unreadable files are skipped rather than failing the listing.
			continue
		}
		infos = append(infos, Info{
			Name:      name,
			NodeCount: len(doc.Nodes),
			EdgeCount: len(doc.Edges),
			UpdatedAt: doc.UpdatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a stored document and its backup, if any.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(name)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete %s", name)
	}
	_ = os.Remove(path + ".bak")
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// validateName rejects names that would escape the store directory.
func validateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidPath, "document name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return errors.New(errors.ErrCodeInvalidPath, "document name %q contains path separators", name)
	}
	return errors.ValidatePath(name)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

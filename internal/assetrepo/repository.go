// internal/assetrepo/repository.go
//
// Directory-backed storage for managed stylesheet files.
//
// Context
// -------
// Every stylesheet the manager knows about is a plain file under one
// directory, keyed by its sanitized file name.  The Repository owns the
// bytes; record metadata lives in internal/stylesheet.  The directory is
// injected at construction and created on first use, mirroring the
// upload-area bootstrap the host platform performs on install.
//
// Callers MUST sanitize names through CleanFileName before any other
// call; the repository itself only joins the cleaned name onto its
// directory.  Keeping sanitization at the boundary means the admin layer
// rejects a hostile name once, with a useful message, instead of every
// storage method re-validating.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package assetrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Ext is the one recognized stylesheet extension.
const Ext = ".css"

// Repository reads and writes stylesheet files under a single directory.
type Repository struct {
	dir string
}

// New ensures dir exists and returns a Repository rooted there.
func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assetrepo: create %s: %w", dir, err)
	}
	return &Repository{dir: dir}, nil
}

// Dir returns the backing directory, for the static file server.
func (r *Repository) Dir() string { return r.dir }

// Write stores content under fileName, creating or truncating.
func (r *Repository) Write(fileName string, content []byte) error {
	return os.WriteFile(filepath.Join(r.dir, fileName), content, 0o644)
}

// Read returns the file bytes.  A missing file surfaces as fs.ErrNotExist.
func (r *Repository) Read(fileName string) ([]byte, error) {
	return os.ReadFile(filepath.Join(r.dir, fileName))
}

// Delete removes the backing file.  Deleting a file that is already gone
// is not an error; the caller decides whether absence matters.
func (r *Repository) Delete(fileName string) error {
	err := os.Remove(filepath.Join(r.dir, fileName))
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether the backing file is present.
func (r *Repository) Exists(fileName string) bool {
	_, err := os.Stat(filepath.Join(r.dir, fileName))
	return err == nil
}

// LastModified returns the file mtime, the cache-busting version source.
func (r *Repository) LastModified(fileName string) (time.Time, error) {
	fi, err := os.Stat(filepath.Join(r.dir, fileName))
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// List returns every *.css file name in the directory, sorted.  The admin
// listing merges this with the record table so files that lost their row
// (or rows that lost their file) still show up.
func (r *Repository) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), Ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// CleanFileName normalizes and validates an admin-supplied file name.
// The result is lower-case, restricted to [a-z0-9._-], free of path
// separators, and carries exactly one ".css" extension.  A name that
// cannot be normalized into that shape is rejected rather than repaired
// beyond recognition.
func CleanFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "", errors.New("empty file name")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return "", fmt.Errorf("file name %q contains path elements", name)
	}

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('-')
		default:
			// Dropped silently, same as the platform's own sanitizer.
		}
	}
	clean := b.String()

	base := strings.TrimSuffix(clean, Ext)
	if base == "" || base == clean {
		return "", fmt.Errorf("file name %q must end in %s", name, Ext)
	}
	if strings.HasSuffix(base, Ext) {
		return "", fmt.Errorf("file name %q carries a doubled extension", name)
	}
	return base + Ext, nil
}

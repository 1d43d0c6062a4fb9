// internal/manager/manager.go
//
// Administrative operations over the record store and the asset
// repository.
//
// Context
// -------
// The Manager is what the admin component calls after the capability and
// anti-forgery gates have passed; it performs no authorization itself.
// Each operation sanitizes its input once at this boundary, then drives
// the two collaborators in an order that cannot strand an orphan:
//
//   - create/upload write the file first, and roll the file back when
//     the record insert fails, so a file never exists without a row.
//   - delete removes the file first, and removes the row even when the
//     file was already gone, so a row never outlives its file.  When the
//     file is gone but the row delete fails, the Persistence error tells
//     the administrator manual cleanup may be needed; the file is not
//     re-created.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package manager

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/cascade/internal/assetrepo"
	"github.com/yanizio/cascade/internal/metrics"
	"github.com/yanizio/cascade/internal/stylesheet"
)

// Store is the slice of the record store the manager drives.
// *stylesheet.Store satisfies it; tests inject fakes.
type Store interface {
	Create(ctx context.Context, fileName string, now time.Time) (uint64, error)
	Delete(ctx context.Context, fileName string) (int64, error)
	SetActive(ctx context.Context, fileName string, active bool) error
	SetPriority(ctx context.Context, fileName string, priority int) error
	SetLocation(ctx context.Context, id uint64, loc stylesheet.Location, targets, postType string) error
	SetSpecificTargets(ctx context.Context, id uint64, targets string) error
	SetCustomPostType(ctx context.Context, id uint64, postType string) error
	Touch(ctx context.Context, fileName string, now time.Time) error
	ListAll(ctx context.Context) ([]stylesheet.Record, error)
	ByFileName(ctx context.Context, fileName string) (*stylesheet.Record, error)
	ByID(ctx context.Context, id uint64) (*stylesheet.Record, error)
	CountActive(ctx context.Context) (int, error)
}

// Files is the slice of the asset repository the manager drives.
type Files interface {
	Write(fileName string, content []byte) error
	Read(fileName string) ([]byte, error)
	Delete(fileName string) error
	Exists(fileName string) bool
	LastModified(fileName string) (time.Time, error)
	List() ([]string, error)
}

// Manager wires the store and the repository behind one operation
// surface.
type Manager struct {
	store Store
	files Files
	log   *zap.SugaredLogger
	now   func() time.Time
}

// New builds a Manager.  A nil log falls back to the global logger.
func New(store Store, files Files, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.S()
	}
	return &Manager{store: store, files: files, log: log, now: time.Now}
}

// Create registers a fresh, empty stylesheet.  An extension-less name
// gets ".css" appended, the same convenience the admin form offers.  The
// file receives a seed comment so editors never open a zero-byte buffer.
func (m *Manager) Create(ctx context.Context, rawName string) (*stylesheet.Record, error) {
	const op = "create"
	rawName = strings.TrimSpace(rawName)
	if rawName != "" && filepath.Ext(rawName) == "" {
		rawName += assetrepo.Ext
	}
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return nil, errf(KindValidation, op, err.Error(), err)
	}
	if m.files.Exists(name) {
		return nil, errf(KindConflict, op, "file already exists", nil)
	}

	seed := []byte("/* New CSS file: " + name + " */\n")
	if err := m.files.Write(name, seed); err != nil {
		return nil, errf(KindStorage, op,
			"failed to create the file, check folder permissions", err)
	}

	if _, err := m.store.Create(ctx, name, m.now()); err != nil {
		// Roll the file back so no orphan survives the failed insert.
		if delErr := m.files.Delete(name); delErr != nil {
			m.log.Errorw("rollback after failed insert left a file behind",
				"file", name, "err", delErr)
		}
		if errors.Is(err, stylesheet.ErrDuplicate) {
			return nil, errf(KindConflict, op, "file name already registered", err)
		}
		return nil, errf(KindPersistence, op,
			"failed to register the new file in the database", err)
	}

	m.log.Infow("stylesheet created", "file", name)
	return m.store.ByFileName(ctx, name)
}

// Upload registers a stylesheet from uploaded bytes.
func (m *Manager) Upload(ctx context.Context, rawName string, content []byte) (*stylesheet.Record, error) {
	const op = "upload"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return nil, errf(KindValidation, op,
			"invalid file type, only .css files are allowed", err)
	}
	if m.files.Exists(name) {
		return nil, errf(KindConflict, op, "file already exists", nil)
	}

	if err := m.files.Write(name, content); err != nil {
		return nil, errf(KindStorage, op, "failed to move uploaded file", err)
	}

	if _, err := m.store.Create(ctx, name, m.now()); err != nil {
		if delErr := m.files.Delete(name); delErr != nil {
			m.log.Errorw("rollback after failed insert left a file behind",
				"file", name, "err", delErr)
		}
		if errors.Is(err, stylesheet.ErrDuplicate) {
			return nil, errf(KindConflict, op, "file name already registered", err)
		}
		return nil, errf(KindPersistence, op,
			"failed to register the uploaded file in the database", err)
	}

	m.log.Infow("stylesheet uploaded", "file", name, "bytes", len(content))
	return m.store.ByFileName(ctx, name)
}

// Delete removes the file and the record, in that order.  A record whose
// file is already absent is still removed.
func (m *Manager) Delete(ctx context.Context, rawName string) error {
	const op = "delete"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return errf(KindValidation, op, err.Error(), err)
	}

	hadFile := m.files.Exists(name)
	if err := m.files.Delete(name); err != nil {
		return errf(KindStorage, op, "failed to delete file", err)
	}

	affected, err := m.store.Delete(ctx, name)
	if err != nil {
		// The file is gone; do not re-create it.  The admin needs to
		// know a stale row may remain.
		return errf(KindPersistence, op,
			"file removed, but deleting its record failed; manual cleanup may be needed", err)
	}
	if affected == 0 && !hadFile {
		return errf(KindNotFound, op, "no such stylesheet", nil)
	}

	m.refreshActiveGauge(ctx)
	m.log.Infow("stylesheet deleted", "file", name, "had_file", hadFile)
	return nil
}

// SetActive toggles whether the stylesheet participates in resolution.
func (m *Manager) SetActive(ctx context.Context, rawName string, active bool) error {
	const op = "activate"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return errf(KindValidation, op, err.Error(), err)
	}
	if _, err := m.store.ByFileName(ctx, name); err != nil {
		if errors.Is(err, stylesheet.ErrNotFound) {
			return errf(KindNotFound, op, "no such stylesheet", err)
		}
		return errf(KindPersistence, op, "failed to look up record", err)
	}
	if err := m.store.SetActive(ctx, name, active); err != nil {
		return errf(KindPersistence, op, "failed to update activation status", err)
	}
	m.refreshActiveGauge(ctx)
	return nil
}

// SetPriority updates the attach-order weight.
func (m *Manager) SetPriority(ctx context.Context, rawName string, priority int) error {
	const op = "priority"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return errf(KindValidation, op, err.Error(), err)
	}
	if priority < 0 {
		return errf(KindValidation, op, "priority must be zero or positive", nil)
	}
	if _, err := m.store.ByFileName(ctx, name); err != nil {
		if errors.Is(err, stylesheet.ErrNotFound) {
			return errf(KindNotFound, op, "no such stylesheet", err)
		}
		return errf(KindPersistence, op, "failed to look up record", err)
	}
	if err := m.store.SetPriority(ctx, name, priority); err != nil {
		return errf(KindPersistence, op, "failed to update priority", err)
	}
	return nil
}

// SetLocation rewrites the targeting rule.  The extra value feeds
// specific_targets for "specific" and custom_post_type for "post_type";
// other locations clear both.
func (m *Manager) SetLocation(ctx context.Context, id uint64, rawLoc, extra string) error {
	const op = "location"
	if id == 0 {
		return errf(KindValidation, op, "invalid stylesheet id", nil)
	}
	loc, err := stylesheet.ParseLocation(rawLoc)
	if err != nil {
		return errf(KindValidation, op, err.Error(), err)
	}
	if _, err := m.store.ByID(ctx, id); err != nil {
		if errors.Is(err, stylesheet.ErrNotFound) {
			return errf(KindValidation, op, "invalid stylesheet id", err)
		}
		return errf(KindPersistence, op, "failed to look up record", err)
	}

	var targets, postType string
	switch loc {
	case stylesheet.Specific:
		targets = normalizeTargets(extra)
	case stylesheet.PostType:
		postType = strings.TrimSpace(extra)
	}
	if err := m.store.SetLocation(ctx, id, loc, targets, postType); err != nil {
		return errf(KindPersistence, op, "failed to update enqueue location", err)
	}
	return nil
}

// SetTargets rewrites the content-ID list on its own, the standalone
// save the admin table performs when only the IDs changed.
func (m *Manager) SetTargets(ctx context.Context, id uint64, raw string) error {
	const op = "targets"
	if id == 0 {
		return errf(KindValidation, op, "invalid stylesheet id", nil)
	}
	if _, err := m.store.ByID(ctx, id); err != nil {
		if errors.Is(err, stylesheet.ErrNotFound) {
			return errf(KindValidation, op, "invalid stylesheet id", err)
		}
		return errf(KindPersistence, op, "failed to look up record", err)
	}
	if err := m.store.SetSpecificTargets(ctx, id, normalizeTargets(raw)); err != nil {
		return errf(KindPersistence, op, "failed to update specific targets", err)
	}
	return nil
}

// SetPostType rewrites the bound content type on its own.
func (m *Manager) SetPostType(ctx context.Context, id uint64, raw string) error {
	const op = "post_type"
	if id == 0 {
		return errf(KindValidation, op, "invalid stylesheet id", nil)
	}
	if _, err := m.store.ByID(ctx, id); err != nil {
		if errors.Is(err, stylesheet.ErrNotFound) {
			return errf(KindValidation, op, "invalid stylesheet id", err)
		}
		return errf(KindPersistence, op, "failed to look up record", err)
	}
	if err := m.store.SetCustomPostType(ctx, id, strings.TrimSpace(raw)); err != nil {
		return errf(KindPersistence, op, "failed to update custom post type", err)
	}
	return nil
}

// ReadContent returns the file body for the editor.
func (m *Manager) ReadContent(_ context.Context, rawName string) ([]byte, error) {
	const op = "read"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return nil, errf(KindValidation, op, err.Error(), err)
	}
	body, err := m.files.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errf(KindNotFound, op, "file does not exist", err)
		}
		return nil, errf(KindStorage, op, "failed to read file", err)
	}
	return body, nil
}

// SaveContent overwrites the file body and bumps last_edited.
func (m *Manager) SaveContent(ctx context.Context, rawName string, content []byte) error {
	const op = "save"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return errf(KindValidation, op, err.Error(), err)
	}
	if !m.files.Exists(name) {
		return errf(KindNotFound, op, "file not found", nil)
	}
	if err := m.files.Write(name, content); err != nil {
		return errf(KindStorage, op,
			"failed to save the file, check file permissions", err)
	}
	if err := m.store.Touch(ctx, name, m.now()); err != nil {
		// The content is saved; a stale last_edited only affects the
		// admin listing, so report and move on.
		m.log.Warnw("last_edited bump failed", "file", name, "err", err)
	}
	m.log.Infow("stylesheet saved", "file", name, "bytes", len(content))
	return nil
}

// Status reports the activation flag for one stylesheet.
func (m *Manager) Status(ctx context.Context, rawName string) (bool, error) {
	const op = "status"
	name, err := assetrepo.CleanFileName(rawName)
	if err != nil {
		return false, errf(KindValidation, op, err.Error(), err)
	}
	rec, err := m.store.ByFileName(ctx, name)
	if err != nil {
		if errors.Is(err, stylesheet.ErrNotFound) {
			return false, errf(KindNotFound, op, "file not found", err)
		}
		return false, errf(KindPersistence, op, "failed to look up record", err)
	}
	return rec.Active, nil
}

// Entry is one row of the merged admin listing: directory contents joined
// with record metadata, defaults filled for files that lost their row.
type Entry struct {
	FileName   string              `json:"file_name"`
	LastEdited time.Time           `json:"last_edited"`
	Active     bool                `json:"active"`
	Location   stylesheet.Location `json:"enqueue_location"`
	Priority   int                 `json:"priority"`
	Targets    string              `json:"specific_targets,omitempty"`
	PostType   string              `json:"custom_post_type,omitempty"`
	ID         uint64              `json:"id,omitempty"`
	Registered bool                `json:"registered"`
}

// List walks the asset directory and joins each file with its record.
// Machine-generated ".min.css" companions are hidden, matching the admin
// table the operators already know.
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	const op = "list"
	names, err := m.files.List()
	if err != nil {
		return nil, errf(KindStorage, op, "failed to read asset directory", err)
	}
	records, err := m.store.ListAll(ctx)
	if err != nil {
		return nil, errf(KindPersistence, op, "failed to list records", err)
	}
	byName := make(map[string]stylesheet.Record, len(records))
	for _, r := range records {
		byName[r.FileName] = r
	}

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		if strings.HasSuffix(name, ".min.css") {
			continue
		}
		e := Entry{
			FileName: name,
			Location: stylesheet.Everywhere,
			Priority: stylesheet.DefaultPriority,
		}
		if mt, err := m.files.LastModified(name); err == nil {
			e.LastEdited = mt
		}
		if rec, ok := byName[name]; ok {
			e.ID = rec.ID
			e.Active = rec.Active
			e.Location = rec.Location
			e.Priority = rec.Priority
			e.Targets = rec.Targets()
			e.PostType = rec.PostType()
			e.Registered = true
		}
		out = append(out, e)
	}
	return out, nil
}

// normalizeTargets trims each comma-separated entry and drops empties, so
// "5, 7,,9 " persists as "5,7,9".
func normalizeTargets(raw string) string {
	parts := strings.Split(raw, ",")
	keep := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			keep = append(keep, t)
		}
	}
	return strings.Join(keep, ",")
}

// refreshActiveGauge is best effort; the gauge lags rather than fails an
// admin action.
func (m *Manager) refreshActiveGauge(ctx context.Context) {
	if n, err := m.store.CountActive(ctx); err == nil {
		metrics.ActiveStyles.Set(float64(n))
	}
}

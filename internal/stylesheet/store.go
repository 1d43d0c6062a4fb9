// internal/stylesheet/store.go
//
// Query helpers for the `stylesheet` table.
//
// Context
// -------
// The Store owns every row in the `stylesheet` table.  It is a thin sqlx
// layer: one parameterised statement per method, errors returned verbatim
// so the manager can classify them.  The handle is injected at
// construction; nothing here reaches for ambient globals.
//
// Two behaviours worth calling out:
//
//  1. Create relies on the UNIQUE KEY over file_name.  A duplicate insert
//     surfaces as MySQL error 1062, which Create maps to ErrDuplicate so
//     callers need no driver knowledge.
//  2. UPDATE statements treat zero affected rows as success.  MySQL
//     reports zero when the row already holds the target value, and the
//     admin UI re-submits unchanged values all the time.  Existence is
//     checked separately (ByFileName, ByID) where a caller needs it.
//
// Notes
// -----
// • Column list matches the fields in `Record`; update both together.
// • Oxford commas, two spaces after periods.
package stylesheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// ErrDuplicate reports a create collision on file_name.
var ErrDuplicate = errors.New("stylesheet: file name already registered")

// ErrNotFound reports a lookup miss.  It wraps sql.ErrNoRows so callers
// may test against either sentinel.
var ErrNotFound = errors.New("stylesheet: no such record")

const columns = `id, file_name, last_edited, active, enqueue_location,
               priority, specific_targets, custom_post_type,
               created_at, updated_at`

// Store issues all SQL for stylesheet records.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an already-connected handle.
func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// Create inserts a fresh record with the defaults the admin table shows:
// inactive, everywhere, priority 10.  Returns the assigned ID.
func (s *Store) Create(ctx context.Context, fileName string, now time.Time) (uint64, error) {
	const q = `
        INSERT INTO stylesheet
               (file_name, last_edited, active, enqueue_location, priority)
        VALUES (?, ?, FALSE, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, fileName, now, Everywhere, DefaultPriority)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Delete removes the record for fileName.  The affected-row count lets the
// manager distinguish "removed" from "was never registered".
func (s *Store) Delete(ctx context.Context, fileName string) (int64, error) {
	const q = `DELETE FROM stylesheet WHERE file_name = ?`
	res, err := s.db.ExecContext(ctx, q, fileName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetActive toggles the activation flag.
func (s *Store) SetActive(ctx context.Context, fileName string, active bool) error {
	const q = `UPDATE stylesheet SET active = ? WHERE file_name = ?`
	_, err := s.db.ExecContext(ctx, q, active, fileName)
	return err
}

// SetPriority updates the attach-order weight.  Lower attaches earlier.
func (s *Store) SetPriority(ctx context.Context, fileName string, priority int) error {
	const q = `UPDATE stylesheet SET priority = ? WHERE file_name = ?`
	_, err := s.db.ExecContext(ctx, q, priority, fileName)
	return err
}

// SetLocation rewrites the targeting rule in one statement.  The extra
// column that the new location does not use is cleared so stale targeting
// data can never leak into a later rule change.
func (s *Store) SetLocation(ctx context.Context, id uint64, loc Location, targets, postType string) error {
	const q = `
        UPDATE stylesheet
           SET enqueue_location = ?, specific_targets = ?, custom_post_type = ?
         WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, loc, nullable(targets), nullable(postType), id)
	return err
}

// SetSpecificTargets stores the comma-separated content-ID list.
func (s *Store) SetSpecificTargets(ctx context.Context, id uint64, targets string) error {
	const q = `UPDATE stylesheet SET specific_targets = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, nullable(targets), id)
	return err
}

// SetCustomPostType stores the bound content type.
func (s *Store) SetCustomPostType(ctx context.Context, id uint64, postType string) error {
	const q = `UPDATE stylesheet SET custom_post_type = ? WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, nullable(postType), id)
	return err
}

// Touch bumps last_edited after a content save.
func (s *Store) Touch(ctx context.Context, fileName string, now time.Time) error {
	const q = `UPDATE stylesheet SET last_edited = ? WHERE file_name = ?`
	_, err := s.db.ExecContext(ctx, q, now, fileName)
	return err
}

// ListAll returns every record in insertion order.  The resolver sorts by
// priority itself; returning id order keeps equal-priority ties stable.
func (s *Store) ListAll(ctx context.Context) ([]Record, error) {
	const q = `SELECT ` + columns + ` FROM stylesheet ORDER BY id`
	var rows []Record
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ByFileName fetches a single record or ErrNotFound.
func (s *Store) ByFileName(ctx context.Context, fileName string) (*Record, error) {
	const q = `SELECT ` + columns + ` FROM stylesheet WHERE file_name = ? LIMIT 1`
	var rec Record
	if err := s.db.GetContext(ctx, &rec, q, fileName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ByID fetches a single record or ErrNotFound.
func (s *Store) ByID(ctx context.Context, id uint64) (*Record, error) {
	const q = `SELECT ` + columns + ` FROM stylesheet WHERE id = ? LIMIT 1`
	var rec Record
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CountActive feeds the active-styles gauge.
func (s *Store) CountActive(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM stylesheet WHERE active = TRUE`
	var n int
	if err := s.db.GetContext(ctx, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}

// nullable maps "" to SQL NULL so cleared extras do not linger as empty
// strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

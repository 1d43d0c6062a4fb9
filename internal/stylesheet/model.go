// internal/stylesheet/model.go
//
// Record mirrors one row in the persistent `stylesheet` table.
//
// Context
// -------
// Every managed CSS file has exactly one row here.  The file bytes live in
// the asset repository (internal/assetrepo) under the same FileName; the
// row carries everything the enqueue resolver needs to decide whether and
// where the file attaches to a rendered page.
//
// Targeting extras (`SpecificTargets`, `CustomPostType`) are first-class
// nullable columns, not an external key-value sidecar, so the invariants
// tying them to `Location` are checkable in one place.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package stylesheet

import (
	"database/sql"
	"time"
)

// Record mirrors one row in the `stylesheet` table.
type Record struct {
	ID              uint64         `db:"id"`
	FileName        string         `db:"file_name"`
	LastEdited      time.Time      `db:"last_edited"`
	Active          bool           `db:"active"`
	Location        Location       `db:"enqueue_location"`
	Priority        int            `db:"priority"`
	SpecificTargets sql.NullString `db:"specific_targets"`
	CustomPostType  sql.NullString `db:"custom_post_type"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Targets returns the raw comma-separated target list, or "" when unset.
func (r Record) Targets() string {
	if r.SpecificTargets.Valid {
		return r.SpecificTargets.String
	}
	return ""
}

// PostType returns the bound content type, or "" when unset.
func (r Record) PostType() string {
	if r.CustomPostType.Valid {
		return r.CustomPostType.String
	}
	return ""
}

// DefaultPriority is assigned at create time; lower attaches earlier.
const DefaultPriority = 10

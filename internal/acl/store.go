// internal/acl/store.go
//
// Small query helpers for capability checks.
//
// Context
// -------
// The capability model lives inside the platform database:
//
//	role            (id PK, name, enabled)
//	role_capability (role_id, capability, permitted)
//	user_role       (user_id, role_id)
//
// The admin gate needs fast answers to two questions:
//  1. Which *role names* does user X have?       → `UserRoles()`
//  2. Do any of them carry capability C?         → `RolesCapable()`
//
// These helpers accept a *sql.DB and perform simple parameterised
// queries.  They are thin; callers may wrap the results in their own
// per-request cache.  Every admin action this service exposes is gated
// on the single `upload_files` capability, the permission that already
// marks a user as trusted with the asset directory.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package acl

import (
	"context"
	"database/sql"
)

// CapUploadFiles is the capability the admin gate checks.
const CapUploadFiles = "upload_files"

// UserRoles returns the role *names* bound to userID.  Disabled roles are
// filtered out.
func UserRoles(ctx context.Context, db *sql.DB, userID int64) ([]string, error) {
	const q = `SELECT r.name
                 FROM user_role ur
                 JOIN role r ON r.id = ur.role_id
                WHERE ur.user_id = ? AND r.enabled = TRUE`

	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0, 4)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// RolesCapable reports whether *any* of the candidate roles carries the
// capability.  It executes one query using IN (? … ?).
//
// Empty roles slice returns false, nil.
func RolesCapable(ctx context.Context, db *sql.DB, roles []string, capability string) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	// Construct the IN clause placeholders dynamically.
	placeholders := make([]byte, 0, len(roles)*2)
	args := make([]any, 0, len(roles)+1)
	for i, r := range roles {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, r)
	}
	args = append(args, capability)

	q := `SELECT 1
            FROM role_capability rc
            JOIN role r ON r.id = rc.role_id
           WHERE r.name IN (` + string(placeholders) + `)
             AND rc.capability = ?
             AND rc.permitted = TRUE
           LIMIT 1` // early exit once we find a hit

	var dummy int
	err := db.QueryRowContext(ctx, q, args...).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UserCapable chains UserRoles and RolesCapable for the common case.
func UserCapable(ctx context.Context, db *sql.DB, userID int64, capability string) (bool, error) {
	roles, err := UserRoles(ctx, db, userID)
	if err != nil {
		return false, err
	}
	return RolesCapable(ctx, db, roles, capability)
}

// internal/stylesheet/store_test.go
//
// Unit-tests for the stylesheet Store using sqlmock.
//
// Run: go test ./internal/stylesheet -v

package stylesheet

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

func TestCreate_AssignsID(t *testing.T) {
	store, mock := newStore(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO stylesheet (file_name, last_edited, active, enqueue_location, priority) VALUES (?, ?, FALSE, ?, ?)`,
	)).
		WithArgs("site.css", now, Everywhere, DefaultPriority).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := store.Create(context.Background(), "site.css", now)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestCreate_DuplicateMapsToErrDuplicate(t *testing.T) {
	store, mock := newStore(t)
	now := time.Now()

	mock.ExpectExec("INSERT INTO stylesheet").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := store.Create(context.Background(), "site.css", now)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestSetActive_ZeroRowsIsSuccess(t *testing.T) {
	store, mock := newStore(t)

	// Row already active: MySQL reports zero affected rows.
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE stylesheet SET active = ? WHERE file_name = ?`,
	)).
		WithArgs(true, "site.css").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.SetActive(context.Background(), "site.css", true); err != nil {
		t.Fatalf("SetActive error: %v", err)
	}
}

func TestSetLocation_ClearsUnusedExtras(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE stylesheet SET enqueue_location = ?, specific_targets = ?, custom_post_type = ? WHERE id = ?`,
	)).
		WithArgs(Specific, "5,7,9", nil, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SetLocation(context.Background(), 3, Specific, "5,7,9", "")
	if err != nil {
		t.Fatalf("SetLocation error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSetSpecificTargets_EmptyClearsToNull(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE stylesheet SET specific_targets = ? WHERE id = ?`,
	)).
		WithArgs(nil, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SetSpecificTargets(context.Background(), 3, ""); err != nil {
		t.Fatalf("SetSpecificTargets error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestSetCustomPostType(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE stylesheet SET custom_post_type = ? WHERE id = ?`,
	)).
		WithArgs("event", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SetCustomPostType(context.Background(), 3, "event"); err != nil {
		t.Fatalf("SetCustomPostType error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestDelete_ReportsAffectedRows(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM stylesheet WHERE file_name = ?`,
	)).
		WithArgs("gone.css").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := store.Delete(context.Background(), "gone.css")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if n != 0 {
		t.Fatalf("affected = %d, want 0", n)
	}
}

func TestByFileName_MissMapsToErrNotFound(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery("SELECT .+ FROM stylesheet WHERE file_name").
		WithArgs("nope.css").
		WillReturnError(sql.ErrNoRows)

	_, err := store.ByFileName(context.Background(), "nope.css")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListAll_InsertionOrder(t *testing.T) {
	store, mock := newStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "file_name", "last_edited", "active", "enqueue_location",
		"priority", "specific_targets", "custom_post_type",
		"created_at", "updated_at",
	}).
		AddRow(1, "a.css", now, true, "everywhere", 20, nil, nil, now, now).
		AddRow(2, "b.css", now, true, "admin", 20, nil, nil, now, now)

	mock.ExpectQuery("SELECT .+ FROM stylesheet ORDER BY id").
		WillReturnRows(rows)

	got, err := store.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(got) != 2 || got[0].FileName != "a.css" || got[1].FileName != "b.css" {
		t.Fatalf("unexpected rows: %#v", got)
	}
	if got[1].Location != Admin {
		t.Fatalf("location = %q, want admin", got[1].Location)
	}
}

package db

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDSNCarriesPragmas(t *testing.T) {
	got := dsn("/var/lib/power_relay.db")
	if !strings.HasPrefix(got, "file:/var/lib/power_relay.db?") {
		t.Fatalf("dsn = %q", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(pragmas) {
		t.Fatalf("dsn has %d pragmas, want %d: %q", n, len(pragmas), got)
	}
}

func TestMigrate_FromEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("PRAGMA user_version").
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(0))
	mock.ExpectBegin()
	for _, m := range migrations {
		first := strings.SplitN(m, "(", 2)[0]
		mock.ExpectExec(regexp.QuoteMeta(strings.TrimSpace(first))).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(regexp.QuoteMeta(fmt.Sprintf("PRAGMA user_version = %d", len(migrations)))).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	v, err := Migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if v != len(migrations) {
		t.Fatalf("version = %d, want %d", v, len(migrations))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("PRAGMA user_version").
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(len(migrations) + 1))

	if _, err := Migrate(context.Background(), db); err == nil {
		t.Fatal("expected error for a schema from a newer build")
	}
}

func TestMigrate_FailedStatementRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("PRAGMA user_version").
		WillReturnRows(sqlmock.NewRows([]string{"user_version"}).AddRow(len(migrations) - 1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(fmt.Errorf("disk I/O error"))
	mock.ExpectRollback()

	v, err := Migrate(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), fmt.Sprintf("migration %d", len(migrations))) {
		t.Fatalf("err = %v", err)
	}
	if v != len(migrations)-1 {
		t.Fatalf("version = %d, want unchanged %d", v, len(migrations)-1)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitDB_CreatesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.db")

	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (username, password_hash, created_at) VALUES ('admin', 'x', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO users (username, password_hash, created_at) VALUES ('ADMIN', 'y', CURRENT_TIMESTAMP)`); err == nil {
		t.Fatal("usernames must be unique regardless of case")
	}
	_ = db.Close()

	db, err = InitDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var users, version int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users); err != nil || users != 1 {
		t.Fatalf("users after reopen = %d, %v", users, err)
	}
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil || version != len(migrations) {
		t.Fatalf("user_version = %d, %v", version, err)
	}
}

package device

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user',
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE TABLE devices (
    id         TEXT PRIMARY KEY,
    owner_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    type       TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'ACTIVE',
    location   TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE water_data (
    id               TEXT PRIMARY KEY,
    device_id        TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
    timestamp        TEXT NOT NULL,
    temperature      REAL NOT NULL,
    ph               REAL NOT NULL,
    dissolved_oxygen REAL NOT NULL,
    turbidity        REAL NOT NULL
);

CREATE TABLE light_data (
    id        TEXT PRIMARY KEY,
    device_id TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
    timestamp TEXT NOT NULL,
    intensity REAL NOT NULL
);

CREATE TABLE pump_logs (
    id        TEXT PRIMARY KEY,
    device_id TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
    action    TEXT NOT NULL,
    duration  INTEGER,
    timestamp TEXT NOT NULL
);

CREATE TABLE alert_rules (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    device_id   TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    description TEXT,
    metric      TEXT NOT NULL,
    operator    TEXT NOT NULL,
    threshold   REAL NOT NULL,
    severity    TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
`

// testDB creates a temporary SQLite database with the device schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if _, err := db.Exec(testSchema); err != nil {
		db.Close()
		t.Fatalf("creating test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
	})

	return db
}

// seedOwner inserts a user row so device foreign keys resolve.
func seedOwner(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO users (id, email, name, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, 'Test', 'h', 'user', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		id, id+"@example.com")
	if err != nil {
		t.Fatalf("seeding owner %s: %v", id, err)
	}
}

// seedDevice inserts a device for an owner and returns it.
func seedDevice(t *testing.T, repo Repository, ownerID, name string) *Device {
	t.Helper()
	d := &Device{OwnerID: ownerID, Name: name, Type: "aquarium-monitor"}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding device %s: %v", name, err)
	}
	return d
}

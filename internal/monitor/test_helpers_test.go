package monitor

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
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

// fakePublisher records published commands in memory.
type fakePublisher struct {
	mu        sync.Mutex
	connected bool
	published []publishedMessage
	err       error
}

type publishedMessage struct {
	topic   string
	payload []byte
}

func (f *fakePublisher) PublishJSON(topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedMessage{topic: topic, payload: payload})
	return nil
}

func (f *fakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePublisher) messages() []publishedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMessage(nil), f.published...)
}

// fakeMirror records mirrored points in memory.
type fakeMirror struct {
	mu          sync.Mutex
	waterWrites int
	lightWrites int
	pumpEvents  int
}

func (f *fakeMirror) WriteWaterReading(_ string, _, _, _, _ float64, _ time.Time) {
	f.mu.Lock()
	f.waterWrites++
	f.mu.Unlock()
}

func (f *fakeMirror) WriteLightReading(_ string, _ float64, _ time.Time) {
	f.mu.Lock()
	f.lightWrites++
	f.mu.Unlock()
}

func (f *fakeMirror) WritePumpEvent(_, _ string, _ int, _ time.Time) {
	f.mu.Lock()
	f.pumpEvents++
	f.mu.Unlock()
}

type testEnv struct {
	service   *Service
	db        *sql.DB
	publisher *fakePublisher
	mirror    *fakeMirror
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	publisher := &fakePublisher{connected: true}
	mirror := &fakeMirror{}

	service := NewService(
		device.NewRepository(db),
		device.NewWaterRepository(db),
		device.NewLightRepository(db),
		device.NewPumpRepository(db),
		device.NewAlertRepository(db),
		publisher,
		mirror,
		logging.Default(),
	)

	return &testEnv{service: service, db: db, publisher: publisher, mirror: mirror}
}

func (e *testEnv) seedUser(t *testing.T, id string) *access.Principal {
	t.Helper()
	_, err := e.db.Exec(
		`INSERT INTO users (id, email, name, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, 'Test', 'h', 'user', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		id, id+"@example.com")
	if err != nil {
		t.Fatalf("seeding user %s: %v", id, err)
	}
	return &access.Principal{ID: id, Role: access.RoleUser}
}

func (e *testEnv) seedDevice(t *testing.T, p *access.Principal, name string) *device.Device {
	t.Helper()
	d, err := e.service.RegisterDevice(context.Background(), p, RegisterDeviceInput{
		Name: name,
		Type: "aquarium-monitor",
	})
	if err != nil {
		t.Fatalf("seeding device %s: %v", name, err)
	}
	return d
}

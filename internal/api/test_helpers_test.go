package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kestrelworks/aquamon-core/internal/auth"
	"github.com/kestrelworks/aquamon-core/internal/device"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/config"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
	"github.com/kestrelworks/aquamon-core/internal/monitor"
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

CREATE TABLE refresh_tokens (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    token_hash TEXT NOT NULL UNIQUE,
    expires_at TEXT NOT NULL,
    revoked    INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
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

// testServer is a fully-wired HTTP stack over a temp SQLite database.
type testServer struct {
	*httptest.Server
	db *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	path := filepath.Join(t.TempDir(), "api_test.db")
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	logger := logging.Default()
	authSvc := auth.NewService(
		auth.NewUserRepository(db),
		auth.NewTokenRepository(db),
		config.JWTConfig{
			Secret:          "test-secret-key-at-least-32-chars-long",
			AccessTokenTTL:  15,
			RefreshTokenTTL: 1440,
		},
		logger,
	)
	monitorSvc := monitor.NewService(
		device.NewRepository(db),
		device.NewWaterRepository(db),
		device.NewLightRepository(db),
		device.NewPumpRepository(db),
		device.NewAlertRepository(db),
		nil, nil,
		logger,
	)

	srv, err := New(Deps{
		Logger:  logger,
		Auth:    authSvc,
		Monitor: monitorSvc,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("creating api server: %v", err)
	}

	ts := httptest.NewServer(srv.buildRouter())
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, db: db}
}

// do sends a JSON request and decodes the response body into out (when out
// is non-nil). The returned status code is always valid.
func (ts *testServer) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("sending request: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decoding response body: %v", err)
		}
	}
	return resp.StatusCode
}

var testUserSeq int

// registerAndLogin creates a fresh account and returns its access token and
// user ID.
func (ts *testServer) registerAndLogin(t *testing.T) (token, userID string) {
	t.Helper()

	testUserSeq++
	email := fmt.Sprintf("user%d@example.com", testUserSeq)

	var user struct {
		ID string `json:"id"`
	}
	if status := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "C0rrect horse battery",
	}, &user); status != http.StatusCreated {
		t.Fatalf("register returned status %d", status)
	}

	var login struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	if status := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "C0rrect horse battery",
	}, &login); status != http.StatusOK {
		t.Fatalf("login returned status %d", status)
	}

	return login.Tokens.AccessToken, user.ID
}

// createDevice registers a device for the token's account and returns its ID.
func (ts *testServer) createDevice(t *testing.T, token string) string {
	t.Helper()

	var dev struct {
		ID string `json:"id"`
	}
	if status := ts.do(t, http.MethodPost, "/api/v1/devices", token, map[string]string{
		"name":     "Tank Monitor",
		"type":     "aquarium",
		"location": "greenhouse",
	}, &dev); status != http.StatusCreated {
		t.Fatalf("device registration returned status %d", status)
	}
	return dev.ID
}

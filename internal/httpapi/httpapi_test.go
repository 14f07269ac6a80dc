package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"climate-server/internal/config"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestServer(t *testing.T, db *sql.DB) *httptest.Server {
	t.Helper()

	metrics := NewMetrics()
	mux := NewMux(db, metrics)
	mux.HandleFunc("GET /api/v1.0/{start}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := NewServer(config.Config{HTTPAddr: ":0"}, mux, metrics)
	ts := httptest.NewServer(srv.Handler)

	t.Cleanup(ts.Close)
	return ts
}

func mustGetRaw(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestHealthz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ts := newTestServer(t, setupTestDB(t))

		resp, body := mustGetRaw(t, ts.Client(), ts.URL+"/healthz")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusOK)
		}
		var got map[string]string
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatalf("decode json: %v", err)
		}
		if got["status"] != "ok" {
			t.Errorf("status field = %q; want ok", got["status"])
		}
	})

	t.Run("closed database", func(t *testing.T) {
		captureDefaultLogger(t)
		db := setupTestDB(t)
		_ = db.Close()
		ts := newTestServer(t, db)

		resp, body := mustGetRaw(t, ts.Client(), ts.URL+"/healthz")
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusInternalServerError)
		}
		if !strings.Contains(body, "database connectivity") {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		ts := newTestServer(t, setupTestDB(t))
		resp, err := ts.Client().Post(ts.URL+"/healthz", "text/plain", nil)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status = %d; want %d", resp.StatusCode, http.StatusMethodNotAllowed)
		}
	})
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t, setupTestDB(t))
	client := ts.Client()

	mustGetRaw(t, client, ts.URL+"/healthz")
	mustGetRaw(t, client, ts.URL+"/api/v1.0/2017-01-01")
	mustGetRaw(t, client, ts.URL+"/api/v1.0/2017-01-02")
	mustGetRaw(t, client, ts.URL+"/does/not/exist")

	resp, body := mustGetRaw(t, client, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusOK)
	}

	for _, want := range []string{
		`climate_http_requests_total{method="GET",route="GET /healthz",status="200"} 1`,
		`climate_http_requests_total{method="GET",route="GET /api/v1.0/{start}",status="418"} 2`,
		`climate_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
		`climate_http_request_duration_seconds_count{method="GET",route="GET /healthz"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(body, "2017-01-01") {
		t.Error("raw path leaked into metric labels")
	}
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// each call owns its registry, so building twice must not panic
	NewMetrics()
	NewMetrics()
}

func TestRequestLogger(t *testing.T) {
	buf := captureDefaultLogger(t)

	h := requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.WriteHeader(http.StatusOK) // superfluous, ignored by the recorder
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1.0/bad", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "http request" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["method"] != http.MethodGet || entry["path"] != "/api/v1.0/bad" {
		t.Errorf("entry = %v", entry)
	}
	if status, _ := entry["status"].(float64); int(status) != http.StatusBadRequest {
		t.Errorf("status = %v; want %d", entry["status"], http.StatusBadRequest)
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("duration_ms missing")
	}
}

func TestRequestLogger_DefaultStatus(t *testing.T) {
	buf := captureDefaultLogger(t)

	h := requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("log = %s; want status 200", buf.String())
	}
}

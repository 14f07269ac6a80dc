package config

import (
	"log/slog"
	"testing"
	"time"
)

var envKeys = []string{
	"APP_ENV",
	"LOG_LEVEL",
	"HTTP_ADDR",
	"SQLITE_PATH",
	"DB_DSN",
	"DB_MAX_OPEN_CONNS",
	"DB_MAX_IDLE_CONNS",
	"DB_CONN_MAX_LIFETIME",
	"SQL_LOG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if got.SQLitePath != "Resources/hawaii.sqlite" {
		t.Errorf("SQLitePath = %q, want %q", got.SQLitePath, "Resources/hawaii.sqlite")
	}
	if got.SQLiteDSN != "" {
		t.Errorf("SQLiteDSN = %q, want empty", got.SQLiteDSN)
	}
	if got.SQLiteMaxOpenConns != 4 || got.SQLiteMaxIdleConns != 4 {
		t.Errorf("pool = %d/%d, want 4/4", got.SQLiteMaxOpenConns, got.SQLiteMaxIdleConns)
	}
	if got.SQLiteConnMaxLifetime != 0 {
		t.Errorf("SQLiteConnMaxLifetime = %v, want 0", got.SQLiteConnMaxLifetime)
	}
	if got.SQLLog {
		t.Errorf("SQLLog = true, want false")
	}
}

func TestLoadFromEnv_AppEnv(t *testing.T) {
	tests := []struct {
		name    string
		appEnv  string
		want    string
		wantErr bool
	}{
		{name: "dev", appEnv: "dev", want: "dev"},
		{name: "prod", appEnv: "prod", want: "prod"},
		{name: "prod with whitespace", appEnv: "\nprod\t", want: "prod"},
		{name: "staging", appEnv: "staging", wantErr: true},
		{name: "uppercase", appEnv: "DEV", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			got, err := LoadFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("LoadFromEnv() error = nil, want non-nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.AppEnv != tt.want {
				t.Errorf("AppEnv = %q, want %q", got.AppEnv, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_Database(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", " /data/hawaii.sqlite ")
	t.Setenv("DB_DSN", "file:/tmp/x.db?mode=ro")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_MAX_IDLE_CONNS", "0")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("SQL_LOG", "true")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.SQLitePath != "/data/hawaii.sqlite" {
		t.Errorf("SQLitePath = %q", got.SQLitePath)
	}
	if got.SQLiteDSN != "file:/tmp/x.db?mode=ro" {
		t.Errorf("SQLiteDSN = %q", got.SQLiteDSN)
	}
	if got.SQLiteMaxOpenConns != 8 {
		t.Errorf("SQLiteMaxOpenConns = %d, want 8", got.SQLiteMaxOpenConns)
	}
	if got.SQLiteMaxIdleConns != 0 {
		t.Errorf("SQLiteMaxIdleConns = %d, want 0", got.SQLiteMaxIdleConns)
	}
	if got.SQLiteConnMaxLifetime != 5*time.Minute {
		t.Errorf("SQLiteConnMaxLifetime = %v, want 5m", got.SQLiteConnMaxLifetime)
	}
	if !got.SQLLog {
		t.Errorf("SQLLog = false, want true")
	}
}

func TestLoadFromEnv_InvalidDatabaseSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "max open not a number", key: "DB_MAX_OPEN_CONNS", value: "many"},
		{name: "max open zero", key: "DB_MAX_OPEN_CONNS", value: "0"},
		{name: "max idle negative", key: "DB_MAX_IDLE_CONNS", value: "-1"},
		{name: "lifetime garbage", key: "DB_CONN_MAX_LIFETIME", value: "soon"},
		{name: "lifetime negative", key: "DB_CONN_MAX_LIFETIME", value: "-1s"},
		{name: "sql log garbage", key: "SQL_LOG", value: "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() with %s=%q error = nil, want non-nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoadFromEnv_HTTPAddr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "default when empty", in: "", want: ":8080"},
		{name: "trims whitespace", in: "  :9090  ", want: ":9090"},
		{name: "host:port", in: "127.0.0.1:8081", want: "127.0.0.1:8081"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("HTTP_ADDR", tt.in)

			got, err := LoadFromEnv()
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.HTTPAddr != tt.want {
				t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, tt.want)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "DeBuG", want: slog.LevelDebug},
		{in: "  warn \n", want: slog.LevelWarn},
		{in: "", want: slog.LevelInfo, wantErr: true},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

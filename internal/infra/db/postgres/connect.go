package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  uid TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL DEFAULT '',
  company_name TEXT NOT NULL DEFAULT '',
  industry_type TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS companies (
  uid TEXT PRIMARY KEY,
  company_name TEXT NOT NULL,
  gstin TEXT NOT NULL DEFAULT '',
  industry_type TEXT NOT NULL DEFAULT '',
  machine_count TEXT NOT NULL DEFAULT '',
  shift_timings TEXT NOT NULL DEFAULT '',
  updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS bills (
  id TEXT PRIMARY KEY,
  uid TEXT NOT NULL,
  bill_date TIMESTAMPTZ NOT NULL,
  total_units NUMERIC(14,2) NOT NULL,
  peak_charges NUMERIC(14,2) NOT NULL,
  fixed_charges NUMERIC(14,2) NOT NULL,
  savings_potential NUMERIC(14,2) NOT NULL,
  recommendations_json JSONB NOT NULL,
  model TEXT NOT NULL DEFAULT '',
  media_url TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_uid_date ON bills (uid, bill_date)`,
	`CREATE TABLE IF NOT EXISTS energy_logs (
  id TEXT PRIMARY KEY,
  uid TEXT NOT NULL,
  log_date TIMESTAMPTZ NOT NULL,
  name TEXT NOT NULL,
  units NUMERIC(14,2) NOT NULL,
  actual_cost NUMERIC(14,2) NOT NULL,
  predicted_cost NUMERIC(14,2) NOT NULL,
  potential_savings NUMERIC(14,2) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_energy_uid_date ON energy_logs (uid, log_date)`,
	`CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  uid TEXT NOT NULL,
  kind TEXT NOT NULL,
  model TEXT NOT NULL,
  attempts INT NOT NULL,
  prompt_version TEXT NOT NULL,
  media_url TEXT NOT NULL,
  result_json JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS analysis_failures (
  id BIGSERIAL PRIMARY KEY,
  uid TEXT NOT NULL,
  kind TEXT NOT NULL,
  error_kind TEXT NOT NULL,
  model TEXT NOT NULL,
  attempts INT NOT NULL,
  message TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
}

// Migrate creates the tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func jsonOrEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "{}"
	}
	return s
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(raw), &out)
	return out, err
}

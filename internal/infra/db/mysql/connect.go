package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  uid VARCHAR(36) PRIMARY KEY,
  email VARCHAR(255) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL,
  full_name VARCHAR(255) NOT NULL DEFAULT '',
  company_name VARCHAR(255) NOT NULL DEFAULT '',
  industry_type VARCHAR(64) NOT NULL DEFAULT '',
  created_at DATETIME(6) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS companies (
  uid VARCHAR(36) PRIMARY KEY,
  company_name VARCHAR(255) NOT NULL,
  gstin VARCHAR(32) NOT NULL DEFAULT '',
  industry_type VARCHAR(64) NOT NULL DEFAULT '',
  machine_count VARCHAR(16) NOT NULL DEFAULT '',
  shift_timings VARCHAR(64) NOT NULL DEFAULT '',
  updated_at DATETIME(6) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS bills (
  id VARCHAR(36) PRIMARY KEY,
  uid VARCHAR(36) NOT NULL,
  bill_date DATETIME(6) NOT NULL,
  total_units DECIMAL(14,2) NOT NULL,
  peak_charges DECIMAL(14,2) NOT NULL,
  fixed_charges DECIMAL(14,2) NOT NULL,
  savings_potential DECIMAL(14,2) NOT NULL,
  recommendations_json JSON NOT NULL,
  model VARCHAR(64) NOT NULL DEFAULT '',
  media_url VARCHAR(1024) NOT NULL DEFAULT '',
  INDEX idx_bills_uid_date (uid, bill_date)
)`,
	`CREATE TABLE IF NOT EXISTS energy_logs (
  id VARCHAR(36) PRIMARY KEY,
  uid VARCHAR(36) NOT NULL,
  log_date DATETIME(6) NOT NULL,
  name VARCHAR(64) NOT NULL,
  units DECIMAL(14,2) NOT NULL,
  actual_cost DECIMAL(14,2) NOT NULL,
  predicted_cost DECIMAL(14,2) NOT NULL,
  potential_savings DECIMAL(14,2) NOT NULL,
  INDEX idx_energy_uid_date (uid, log_date)
)`,
	`CREATE TABLE IF NOT EXISTS analyses (
  id VARCHAR(36) PRIMARY KEY,
  uid VARCHAR(36) NOT NULL,
  kind VARCHAR(16) NOT NULL,
  model VARCHAR(64) NOT NULL,
  attempts INT NOT NULL,
  prompt_version VARCHAR(32) NOT NULL,
  media_url VARCHAR(1024) NOT NULL,
  result_json JSON NOT NULL,
  created_at DATETIME(6) NOT NULL,
  INDEX idx_analyses_uid_created (uid, created_at)
)`,
	`CREATE TABLE IF NOT EXISTS analysis_failures (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  uid VARCHAR(36) NOT NULL,
  kind VARCHAR(16) NOT NULL,
  error_kind VARCHAR(32) NOT NULL,
  model VARCHAR(64) NOT NULL,
  attempts INT NOT NULL,
  message TEXT NOT NULL,
  created_at DATETIME(6) NOT NULL
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

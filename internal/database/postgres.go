package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Config holds the Postgres connection settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// NewPostgresDB opens a pooled connection and verifies it with a ping.
func NewPostgresDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Tables backing the Postgres dataset source.
const (
	EmployeesTable    = "compensation.employees"
	PayBandsTable     = "compensation.pay_bands"
	SheetColumnsTable = "compensation.sheet_columns"
)

// Schema creates the compensation tables. Extra workbook columns live in the jsonb column;
// sheet_columns keeps each sheet's column order.
const Schema = `
CREATE SCHEMA IF NOT EXISTS compensation;

CREATE TABLE IF NOT EXISTS compensation.employees (
	year        INT            NOT NULL,
	row_index   INT            NOT NULL,
	department  TEXT           NOT NULL,
	job_level   TEXT           NOT NULL,
	gender      TEXT           NOT NULL,
	ethnicity   TEXT           NOT NULL,
	base_salary NUMERIC(14, 2) NOT NULL CHECK (base_salary >= 0),
	compa_ratio NUMERIC(8, 4)  NOT NULL CHECK (compa_ratio > 0),
	extra       JSONB          NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (year, row_index)
);

CREATE TABLE IF NOT EXISTS compensation.pay_bands (
	year       INT            NOT NULL,
	row_index  INT            NOT NULL,
	job_level  TEXT           NOT NULL,
	min_salary NUMERIC(14, 2) NOT NULL,
	midpoint   NUMERIC(14, 2) NOT NULL,
	max_salary NUMERIC(14, 2) NOT NULL,
	extra      JSONB          NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (year, row_index)
);

CREATE TABLE IF NOT EXISTS compensation.sheet_columns (
	sheet   TEXT PRIMARY KEY,
	columns TEXT[] NOT NULL
);
`

// EnsureSchema applies Schema. All statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

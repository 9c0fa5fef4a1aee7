package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	"sdtr/internal/domain"

	"github.com/go-sql-driver/mysql"
)

const historyTable = "target_results"

// DBSettings locates the MySQL server keeping run history
type DBSettings struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// DBSettingsFromEnv reads DB_HOST, DB_PORT, DB_USERNAME, DB_PASSWORD and DB_DATABASE,
// falling back to a local server. The results path .env is expected to be loaded already.
func DBSettingsFromEnv() DBSettings {
	get := func(name, def string) string {
		if v := os.Getenv(name); v != "" {
			return v
		}
		return def
	}
	return DBSettings{
		Host:     get("DB_HOST", "127.0.0.1"),
		Port:     get("DB_PORT", "3306"),
		User:     get("DB_USERNAME", "root"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: get("DB_DATABASE", "sdtr_history"),
	}
}

// DSN builds the driver connection string; withDatabase selects the history database
func (s DBSettings) DSN(withDatabase bool) string {
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, s.Port)
	cfg.ParseTime = true
	if withDatabase {
		cfg.DBName = s.Database
	}
	return cfg.FormatDSN()
}

// HistoryStore appends one row per target and run to a MySQL table
type HistoryStore struct {
	settings DBSettings
	logger   *slog.Logger
	open     func(dsn string) (*sql.DB, error)
}

// NewHistoryStore creates a new HistoryStore
func NewHistoryStore(settings DBSettings, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HistoryStore{
		settings: settings,
		logger:   logger,
		open:     func(dsn string) (*sql.DB, error) { return sql.Open("mysql", dsn) },
	}
}

func (h *HistoryStore) connect(ctx context.Context, withDatabase bool) (*sql.DB, error) {
	db, err := h.open(h.settings.DSN(withDatabase))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	return db, nil
}

// Init creates the history database and table when they do not exist
func (h *HistoryStore) Init(ctx context.Context) (created bool, err error) {
	name := h.settings.Database
	if !isValidDatabaseName(name) {
		return false, fmt.Errorf("invalid database name: %s", name)
	}

	server, err := h.connect(ctx, false)
	if err != nil {
		return false, err
	}
	defer server.Close()

	exists, err := databaseExists(ctx, server, name)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", name, err)
	}
	if !exists {
		if _, err := server.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
			return false, fmt.Errorf("failed to create database %s: %w", name, err)
		}
	}

	db, err := h.connect(ctx, true)
	if err != nil {
		return false, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return false, fmt.Errorf("failed to create table %s: %w", historyTable, err)
	}
	return !exists, nil
}

const createTableSQL = "CREATE TABLE IF NOT EXISTS `" + historyTable + "` (" +
	"`id` BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY," +
	"`run_id` CHAR(36) NOT NULL," +
	"`phrase` VARCHAR(128) NOT NULL," +
	"`target` VARCHAR(255) NOT NULL," +
	"`passed` INT NOT NULL," +
	"`failed` INT NOT NULL," +
	"`percent` DECIMAL(5,1) NOT NULL," +
	"`report_error` TEXT NULL," +
	"`finished_at` DATETIME NOT NULL," +
	"INDEX `idx_target_finished` (`target`, `finished_at`)" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

const insertSQL = "INSERT INTO `" + historyTable + "` " +
	"(`run_id`, `phrase`, `target`, `passed`, `failed`, `percent`, `report_error`, `finished_at`) " +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

type historyRow struct {
	runID       string
	phrase      string
	target      string
	passed      int
	failed      int
	percent     float64
	reportError sql.NullString
}

func historyRows(run *domain.RunResult) []historyRow {
	rows := make([]historyRow, 0, len(run.Targets))
	for _, t := range run.Targets {
		row := historyRow{
			runID:   run.ID,
			phrase:  run.Phrase,
			target:  t.Target,
			passed:  t.Passed(),
			failed:  t.Failed(),
			percent: t.Percent(),
		}
		if t.Err != nil {
			row.reportError = sql.NullString{String: t.Err.Error(), Valid: true}
		}
		rows = append(rows, row)
	}
	return rows
}

// Write inserts the run's target results in one transaction
func (h *HistoryStore) Write(ctx context.Context, run *domain.RunResult) error {
	rows := historyRows(run)
	if len(rows) == 0 {
		return nil
	}

	db, err := h.connect(ctx, true)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.runID, r.phrase, r.target, r.passed, r.failed, r.percent, r.reportError, run.Finished.UTC()); err != nil {
			return fmt.Errorf("insert history for %s: %w", r.target, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	h.logger.Info("run history stored", "database", h.settings.Database, "rows", len(rows))
	return nil
}

// databaseExists checks if a database exists
func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	invalid := []string{"'", "\"", "`", ";", "--", "/*", "*/", "DROP", "DELETE", "TRUNCATE"}
	upper := strings.ToUpper(name)
	for _, s := range invalid {
		if strings.Contains(upper, s) {
			return false
		}
	}
	return true
}

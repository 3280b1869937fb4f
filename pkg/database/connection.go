package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/config"
	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
)

// QueryRecorder observes database query durations
type QueryRecorder interface {
	RecordDBQuery(queryType string, duration time.Duration)
}

// DB represents the database connection
type DB struct {
	*sql.DB
	config  *config.DatabaseConfig
	logger  *logger.Logger
	metrics QueryRecorder
}

// NewConnection creates a new database connection
func NewConnection(cfg *config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	connStr := buildConnectionString(cfg)

	// Open database connection
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		config: cfg,
		logger: log,
	}

	log.Info("Database connection established successfully")
	return db, nil
}

// Wrap wraps an existing *sql.DB. Used by tests that substitute a mock
// connection.
func Wrap(sqlDB *sql.DB, log *logger.Logger) *DB {
	return &DB{
		DB:     sqlDB,
		logger: log,
	}
}

// SetMetrics attaches a query duration recorder. Queries issued before the
// recorder is set are not observed.
func (db *DB) SetMetrics(rec QueryRecorder) {
	db.metrics = rec
}

// Exec runs a statement and records its duration
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.DB.Exec(query, args...)
	db.observe("exec", start)
	return result, err
}

// Query runs a multi-row query and records its duration
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.DB.Query(query, args...)
	db.observe("query", start)
	return rows, err
}

// QueryRow runs a single-row query and records its duration
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := db.DB.QueryRow(query, args...)
	db.observe("query_row", start)
	return row
}

func (db *DB) observe(queryType string, start time.Time) {
	if db.metrics != nil {
		db.metrics.RecordDBQuery(queryType, time.Since(start))
	}
}

// buildConnectionString constructs the PostgreSQL connection string
func buildConnectionString(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// Health checks the database connection health
func (db *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// BeginTx starts a new transaction
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.DB.BeginTx(ctx, opts)
}

// TryAdvisoryLock attempts to take a session-level advisory lock without
// blocking. It returns false when another session holds the lock.
func (db *DB) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var acquired bool
	err := db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&acquired)
	if err != nil {
		return false, fmt.Errorf("failed to acquire advisory lock: %w", err)
	}
	return acquired, nil
}

// AdvisoryUnlock releases a previously acquired advisory lock
func (db *DB) AdvisoryUnlock(ctx context.Context, key int64) error {
	var released bool
	err := db.QueryRowContext(ctx, `SELECT pg_advisory_unlock($1)`, key).Scan(&released)
	if err != nil {
		return fmt.Errorf("failed to release advisory lock: %w", err)
	}
	if !released {
		db.logger.Warnf("Advisory lock %d was not held at release", key)
	}
	return nil
}

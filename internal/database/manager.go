package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"skofie/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Manager owns the database connection pool and exposes instrumented
// query helpers. All repository access goes through it.
type Manager struct {
	db      *sql.DB
	logger  *zap.Logger
	metrics *Metrics
	config  *config.DatabaseConfig
	mu      sync.RWMutex
}

// NewManager opens the database connection with retry and configures the
// connection pool.
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	configureConnectionPool(db, cfg)

	// The database may still be starting; retry the first ping with
	// exponential backoff before giving up.
	connect := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		return db.PingContext(ctx)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(cfg.RetryBackoff),
	), uint64(cfg.MaxRetryAttempts))

	if err := backoff.RetryNotify(connect, policy, func(err error, next time.Duration) {
		logger.Warn("database not ready, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", next),
		)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	manager := &Manager{
		db:     db,
		logger: logger,
		config: cfg,
	}
	manager.metrics = NewMetrics(logger)

	logger.Info("database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
	)

	return manager, nil
}

func configureConnectionPool(db *sql.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// DB returns the underlying database connection
func (m *Manager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Migrate runs the embedded schema migrations using a separate connection
// so the migrator cannot close the main pool.
func (m *Manager) Migrate() error {
	migrationDB, err := sql.Open("postgres", m.config.URL)
	if err != nil {
		return fmt.Errorf("failed to create migration connection: %w", err)
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("migration connection failed: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	currentVersion, dirty, err := migrator.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}

	m.logger.Info("migrations completed",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
	)

	return nil
}

// ExecContext executes a query with context and slow-query logging
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		m.metrics.RecordQuery("exec", duration, nil)

		if duration > m.config.SlowQueryThreshold {
			m.logger.Warn("slow query detected",
				zap.String("type", "exec"),
				zap.Duration("duration", duration),
				zap.String("query", truncateQuery(query)),
			)
		}
	}()

	result, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		m.metrics.RecordQuery("exec", time.Since(start), err)
	}

	return result, err
}

// QueryContext executes a query with context and slow-query logging
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		m.metrics.RecordQuery("query", duration, nil)

		if duration > m.config.SlowQueryThreshold {
			m.logger.Warn("slow query detected",
				zap.String("type", "query"),
				zap.Duration("duration", duration),
				zap.String("query", truncateQuery(query)),
			)
		}
	}()

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		m.metrics.RecordQuery("query", time.Since(start), err)
	}

	return rows, err
}

// QueryRowContext executes a single-row query with context
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	defer func() {
		duration := time.Since(start)
		m.metrics.RecordQuery("query_row", duration, nil)

		if duration > m.config.SlowQueryThreshold {
			m.logger.Warn("slow query detected",
				zap.String("type", "query_row"),
				zap.Duration("duration", duration),
				zap.String("query", truncateQuery(query)),
			)
		}
	}()

	return m.db.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a new transaction with context
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := m.db.BeginTx(ctx, opts)

	m.metrics.RecordQuery("begin_tx", time.Since(start), err)

	if err != nil {
		m.logger.Error("failed to begin transaction", zap.Error(err))
	}

	return tx, err
}

// Health pings the database with a short timeout.
func (m *Manager) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.db.PingContext(ctx)
}

// Metrics returns a snapshot of the query counters.
func (m *Manager) Metrics() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// Stats returns database pool statistics
func (m *Manager) Stats() sql.DBStats {
	return m.db.Stats()
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		m.logger.Info("closing database connection")
		return m.db.Close()
	}

	return nil
}

func truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}

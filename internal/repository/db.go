package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/einvoice-tools/extractor/internal/common"
)

// Store wraps the archive database handle. The driver is selected by DSN
// scheme: postgres DSNs use pgx, everything else is local SQLite.
type Store struct {
	DB     *sql.DB
	Driver string
	logger *slog.Logger
}

func driverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// Open connects to the archive and runs migrations.
func Open(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := driverForDSN(cfg.DSN)
	logger.Info("store.open", "driver", driver, "dsn", cfg.DSN)

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		logger.Error("store.open.failed", "error", err)
		return nil, common.WrapError(err, "open store")
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("store.ping.failed", "error", err)
		_ = db.Close()
		return nil, common.WrapError(err, "ping store")
	}

	s := &Store{DB: db, Driver: driver, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("store.open.ok", "driver", driver)
	return s, nil
}

// Close closes the archive connection gracefully.
func (s *Store) Close() {
	s.logger.Info("store.close")
	if err := s.DB.Close(); err != nil {
		s.logger.Error("store.close.failed", "error", err)
	}
}

// HealthCheck pings the archive to catch DSN issues early.
func (s *Store) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.DB.PingContext(ctx)
}

// TableCounts returns the row count per archive table, keyed by table name.
func (s *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, 3)
	for _, table := range []string{"documents", "extract_jobs", "records"} {
		var n int64
		if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, common.WrapError(err, "count "+table)
		}
		counts[table] = n
	}
	return counts, nil
}

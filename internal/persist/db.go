package persist

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortyfive/game/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// DB wraps the save-state database. PostgreSQL DSNs go through a pgx pool;
// anything else is opened as a SQLite file (":memory:" for a throwaway one).
type DB struct {
	SQL     *sql.DB
	Pool    *pgxpool.Pool // nil for SQLite
	dialect Dialect
	log     *zap.Logger
}

func NewDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if isPostgres(cfg.DSN) {
		return openPostgres(ctx, cfg, log)
	}
	return openSQLite(ctx, cfg, log)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Info("save store opened", zap.String("dialect", string(DialectPostgres)))
	return &DB{SQL: stdlib.OpenDBFromPool(pool), Pool: pool, dialect: DialectPostgres, log: log}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// An in-memory database exists per connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", dsn, err)
	}
	log.Info("save store opened", zap.String("dialect", string(DialectSQLite)), zap.String("path", dsn))
	return &DB{SQL: sqlDB, dialect: DialectSQLite, log: log}, nil
}

// OpenInMemory opens a private SQLite database.
func OpenInMemory(ctx context.Context, log *zap.Logger) (*DB, error) {
	return openSQLite(ctx, config.DatabaseConfig{DSN: ":memory:"}, log)
}

func (db *DB) Dialect() Dialect { return db.dialect }

func (db *DB) Close() {
	db.SQL.Close()
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

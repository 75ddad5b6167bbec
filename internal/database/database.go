package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"medfinder/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Service owns the Postgres connection pool
type Service interface {
	// DB returns the underlying database/sql handle
	DB() *sql.DB
	// X returns the sqlx handle used by repositories
	X() *sqlx.DB
	// Health reports connection pool statistics
	Health(ctx context.Context) map[string]string
	Close() error
}

type service struct {
	db *sqlx.DB
}

// DSN builds a pgx connection string from configuration
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// New opens and pings a Postgres pool
func New(ctx context.Context, cfg config.DatabaseConfig) (Service, error) {
	db, err := Open(ctx, DSN(cfg))
	if err != nil {
		return nil, err
	}
	return &service{db: db}, nil
}

// Open opens a pgx backed sqlx pool and verifies connectivity
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (s *service) DB() *sql.DB {
	return s.db.DB
}

func (s *service) X() *sqlx.DB {
	return s.db
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := map[string]string{}

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := s.db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprint(dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprint(dbStats.InUse)
	stats["idle"] = fmt.Sprint(dbStats.Idle)
	stats["wait_count"] = fmt.Sprint(dbStats.WaitCount)

	return stats
}

func (s *service) Close() error {
	return s.db.Close()
}

// Package postgres holds the pgx implementations of the repositories.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"pawmatch/errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// DB wraps pgxpool with the lifecycle helpers the stores need.
type DB struct {
	*pgxpool.Pool
	log *slog.Logger
}

type PoolConfig struct {
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

func New(ctx context.Context, url string, cfg PoolConfig, log *slog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	}
	if cfg.MaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("Database connected", "host", poolConfig.ConnConfig.Host, "db", poolConfig.ConnConfig.Database)
	return &DB{Pool: pool, log: log}, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.log.Info("Closing database connection pool")
	db.Pool.Close()
}

func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.Ping(ctx)
}

// mapError translates driver errors into the domain sentinels.
func mapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = errors.ErrNotFound
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case "40001", "40P01":
			err = fmt.Errorf("%w: %s", errors.ErrConflict, pgErr.Message)
		case "23505":
			err = fmt.Errorf("%w: %s", errors.ErrConflict, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

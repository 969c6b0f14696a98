package repository

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations は PostgreSQL 用のマイグレーション SQL（*.up.sql / *.down.sql）
//
//go:embed migrations/*.sql
var Migrations embed.FS

// NewPool は PostgreSQL 接続プールを生成する
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Options selects and configures a store backend.
type Options struct {
	Driver      string // memory | postgres | sqlite | badger
	DatabaseURL string
	SQLitePath  string
	BadgerPath  string
	Logger      *slog.Logger
}

// Open は Options.Driver に応じた ProjectRepository を生成する
func Open(ctx context.Context, opts Options) (ProjectRepository, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryProjectRepository(), nil
	case "postgres":
		pool, err := NewPool(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPgProjectRepository(pool), nil
	case "sqlite":
		return NewSQLiteProjectRepository(opts.SQLitePath)
	case "badger":
		db, err := OpenBadger(BadgerConfig{Path: opts.BadgerPath, SyncWrites: true, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return NewBadgerProjectRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

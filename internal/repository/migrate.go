package repository

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate は未適用の *.up.sql を名前順に適用し、適用数を返す。
// 適用済みのものは schema_migrations に記録される。
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := upFiles()
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, filename := range files {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		sql, err := Migrations.ReadFile("migrations/" + filename)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		applied++
		slog.Info("migration completed", "migration", name)
	}
	return applied, nil
}

// upFiles は埋め込まれた .up.sql ファイル名をソート済みで返す
func upFiles() ([]string, error) {
	entries, err := fs.ReadDir(Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrateLock = "SELECT pg_advisory_xact_lock(hashtext('tincanz.migrate'))"

// Migrate applies the embedded schema files in name order inside one transaction.
// Every statement is idempotent, so running it on each boot is safe. Concurrent
// callers are serialised on an advisory lock.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("migrate: list: %w", err)
	}
	sort.Strings(names)

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migrateLock); err != nil {
			return fmt.Errorf("migrate: lock: %w", err)
		}
		for _, name := range names {
			raw, err := migrations.ReadFile(name)
			if err != nil {
				return fmt.Errorf("migrate: read %s: %w", name, err)
			}
			for _, stmt := range splitStatements(string(raw)) {
				if _, err := tx.Exec(ctx, stmt); err != nil {
					return fmt.Errorf("migrate: %s: %w", name, err)
				}
			}
		}
		return nil
	})
}

// splitStatements cuts a schema file on ';'. The schema has no function bodies,
// so a plain split is enough.
func splitStatements(sql string) []string {
	var out []string
	for _, part := range strings.Split(sql, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

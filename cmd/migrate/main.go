package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Накатывает SQL-миграции из migrations/ по порядку имён файлов.
// Применённые файлы отмечаются в schema_migrations, повторный запуск
// безопасен.

func dsnFromConfig() (string, error) {
	viper.SetConfigName("values_local")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("configs")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// конфига может не быть — тогда только env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return "", errors.Wrap(err, "read config")
		}
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = viper.GetString("db_dsn")
	}
	if dsn == "" {
		return "", errors.New("db_dsn не задан ни в конфиге, ни в DATABASE_DSN")
	}
	return dsn, nil
}

func appliedMigrations(ctx context.Context, conn *pgx.Conn) (map[string]bool, error) {
	_, err := conn.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			name text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, errors.Wrap(err, "create schema_migrations")
	}

	rows, err := conn.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, errors.Wrap(err, "select applied")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan name")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, conn *pgx.Conn, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read migration")
	}

	name := filepath.Base(path)
	tx, err := conn.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(body)); err != nil {
		return errors.Wrapf(err, "apply %s", name)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return errors.Wrapf(err, "mark %s", name)
	}
	return errors.Wrap(tx.Commit(ctx), "commit")
}

func run() error {
	dsn, err := dsnFromConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer func() { _ = conn.Close(ctx) }()

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, "glob migrations")
	}
	sort.Strings(files)

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return err
	}

	for _, f := range files {
		name := filepath.Base(f)
		if applied[name] {
			continue
		}
		if err := apply(ctx, conn, f); err != nil {
			return err
		}
		fmt.Println("applied", name)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

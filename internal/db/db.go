package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var ErrIncompatibleSchema = errors.New("incompatible database schema")

var linkColumns = []string{"id", "shortlink", "longlink", "hits", "created_at"}

// Open opens or creates the database at location and brings the schema up to date.
func Open(ctx context.Context, location string) (*sql.DB, error) {
	dsn := formatDBPath(location)

	instance, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := instance.PingContext(ctx); err != nil {
		instance.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug().Str("location", location).Msg("database connection successful")

	if err := migrateUp(instance); err != nil {
		instance.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := checkSchema(ctx, instance); err != nil {
		instance.Close()
		return nil, err
	}

	log.Info().Str("location", location).Msg("database ready")
	return instance, nil
}

func formatDBPath(path string) string {
	path = strings.TrimPrefix(path, "file:")
	if path == "" {
		path = "urls.sqlite"
	}

	// See: https://pkg.go.dev/modernc.org/sqlite#pkg-overview
	params := url.Values{}
	params.Set("mode", "rwc")
	params.Set("_time_format", "sqlite")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")

	return "file:" + path + "?" + params.Encode()
}

func migrateUp(instance *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(instance, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	// The migrator is not closed: its driver owns instance and would close it.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug().Msg("no migrations to apply")
	case err != nil:
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("%w: dirty migration version %d", ErrIncompatibleSchema, dirty.Version)
		}
		return err
	default:
		log.Info().Msg("migrations completed successfully")
	}

	return nil
}

// checkSchema catches a pre-existing links table that was not created by us.
func checkSchema(ctx context.Context, instance *sql.DB) error {
	var columns []string
	err := goqu.New("sqlite3", instance).
		From(goqu.L("pragma_table_info(?)", "links")).
		Select("name").
		ScanValsContext(ctx, &columns)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}

	missing, _ := lo.Difference(linkColumns, columns)
	if len(missing) > 0 {
		return fmt.Errorf("%w: links table is missing columns %v", ErrIncompatibleSchema, missing)
	}

	return nil
}

// Package migrations embeds the schema and applies it with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var files embed.FS

// Up applies all pending migrations. It is a no-op on an up-to-date schema.
func Up(databaseURL string) error {
	return run(databaseURL, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// Down rolls back the given number of migrations.
func Down(databaseURL string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive")
	}
	return run(databaseURL, func(m *migrate.Migrate) error {
		return m.Steps(-steps)
	})
}

// Version returns the current schema version and whether it is dirty.
func Version(databaseURL string) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := run(databaseURL, func(m *migrate.Migrate) error {
		var err error
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

func run(databaseURL string, fn func(m *migrate.Migrate) error) (runErr error) {
	src, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("iofs.New: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, driverURL(databaseURL))
	if err != nil {
		return fmt.Errorf("migrate.NewWithSourceInstance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		runErr = errors.Join(runErr, srcErr, dbErr)
	}()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

// driverURL switches a postgres:// connection string to the pgx/v5 migrate driver.
func driverURL(databaseURL string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(databaseURL, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

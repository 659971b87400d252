package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/sessiond/internal/session/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations applies any pending migrations from the embedded files.
// The migrate pgx driver opens its own short-lived connection from the DSN,
// separate from the pool.
func (s *Store) ApplyMigrations() error {
	if s.dsn == "" {
		return fmt.Errorf("postgres: migrations need a DSN-backed store")
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	// migrate selects its driver by URL scheme.
	url := s.dsn
	if rest, ok := strings.CutPrefix(url, "postgres://"); ok {
		url = "pgx5://" + rest
	} else if rest, ok := strings.CutPrefix(url, "postgresql://"); ok {
		url = "pgx5://" + rest
	}

	instance, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = instance.Close()
	}()

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

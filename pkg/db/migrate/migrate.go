package migrate

import (
	"embed"
	"errors"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// MigrateDB applies the embedded migrations
func MigrateDB(dbURI string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, toDriverURL(dbURI))
	if err != nil {
		return err
	}
	defer m.Close()
	return up(m)
}

// MigrateDBFrom applies migrations located at sourceURL (for example file:///migrations)
func MigrateDBFrom(sourceURL, dbURI string) error {
	m, err := migrate.New(sourceURL, toDriverURL(dbURI))
	if err != nil {
		return err
	}
	defer m.Close()
	return up(m)
}

func up(m *migrate.Migrate) error {
	err := m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func toDriverURL(dbURI string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURI, prefix) {
			return strings.Replace(dbURI, prefix, "pgx5://", 1)
		}
	}
	return dbURI
}

//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/gp-playoffs/pkg/db/migrate"
	database "github.com/mpapenbr/gp-playoffs/pkg/db/postgres"
)

// SetupTestDb starts (or reuses) a postgres container and returns a pool for
// the migrated test database
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("gp-playoffs-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	return migrateAndConnect(dbURL)
}

// SetupExternalTestDb uses the database given by env TESTDB_URL
func SetupExternalTestDb() *pgxpool.Pool {
	return migrateAndConnect(os.Getenv("TESTDB_URL"))
}

func migrateAndConnect(dbURL string) *pgxpool.Pool {
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearSeasonTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from season_race")
	pool.Exec(context.Background(), "delete from season_calendar")
}

func ClearSyncRunTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from sync_run")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearSyncRunTable(pool)
	ClearSeasonTables(pool)
}

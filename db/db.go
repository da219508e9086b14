// Package db implements the punishment record store on postgres.
package db

import (
	"context"
	"database/sql"
	"embed"

	"emperror.dev/errors"
	"github.com/Masterminds/squirrel"
	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v4/pgxpool"

	migrate "github.com/rubenv/sql-migrate"

	// pgx driver for migrations
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/united-minecrafters/kaede/common/log"
)

// sq is a squirrel builder for postgres
var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type DB struct {
	*pgxpool.Pool

	hub *sentry.Hub
}

// New runs migrations and connects to the database. hub may be nil.
func New(postgres string, hub *sentry.Hub) (*DB, error) {
	err := runMigrations(postgres)
	if err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	pool, err := pgxpool.Connect(context.Background(), postgres)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to postgres")
	}

	return &DB{
		Pool: pool,
		hub:  hub,
	}, nil
}

//go:embed migrations
var fs embed.FS

// runMigrations runs all of the migrations in migrations/.
func runMigrations(postgres string) (err error) {
	db, err := sql.Open("pgx", postgres)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	// we close this because we end up using pgx's native driver for all other queries.
	defer db.Close()

	err = db.Ping()
	if err != nil {
		return errors.Wrap(err, "pinging database")
	}

	migrations := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: fs,
		Root:       "migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return errors.Wrap(err, "running migrations")
	}

	if n != 0 {
		log.Debugf("Performed %v migrations!", n)
	}
	return nil
}

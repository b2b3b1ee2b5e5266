// Command migrate applies the SQL migrations under db/migrations.
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		dbURL = flag.String("db-url", os.Getenv("DB_URL"), "database URL")
		path  = flag.String("path", "db/migrations", "path to migrations directory")
		down  = flag.Bool("down", false, "roll back all migrations instead of applying them")
	)
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	m, err := migrate.New("file://"+*path, *dbURL)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize migrator")
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return
		}
		log.WithError(err).Fatal("migration failed")
	}

	log.Info("migrations applied")
}
